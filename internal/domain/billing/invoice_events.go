package billing

import (
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
)

// Event types for the billing domain
const (
	EventTypeInvoiceCreated       = "billing.invoice.created"
	EventTypeInvoicePaid          = "billing.invoice.paid"
	EventTypeInvoicePartiallyPaid = "billing.invoice.partially_paid"
	EventTypeInvoiceCancelled     = "billing.invoice.cancelled"
)

const aggregateTypeInvoice = "Invoice"

// InvoiceCreatedEvent is raised when an invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaidEvent is raised when an invoice transitions to PAID
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// NewInvoicePaidEvent creates an InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		PaidAmount:      inv.PaidAmount,
	}
}

// InvoicePartiallyPaidEvent is raised when a partial payment is applied
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber    string          `json:"invoice_number"`
	AppliedAmount    decimal.Decimal `json:"applied_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// NewInvoicePartiallyPaidEvent creates an InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(inv *Invoice, applied decimal.Decimal) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoicePartiallyPaid, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:    inv.InvoiceNumber,
		AppliedAmount:    applied,
		RemainingBalance: inv.BalanceAmount,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason"`
}

// NewInvoiceCancelledEvent creates an InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, aggregateTypeInvoice, inv.ID),
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          inv.CancelReason,
	}
}
