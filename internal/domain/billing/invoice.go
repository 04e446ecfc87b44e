package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"          // Not yet issued
	InvoiceStatusSent          InvoiceStatus = "SENT"           // Issued, no payment yet
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < paid < total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully paid, terminal for this engine
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"        // Past due, set by upstream scheduling
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"      // Cancelled, terminal
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// deriveStatus is the single place invoice status is computed from its
// numeric aggregates. No other component may set status once payments exist;
// SENT and OVERDUE are owned by upstream scheduling and pass through unchanged
// while no payment has been applied.
func deriveStatus(current InvoiceStatus, paid, balance decimal.Decimal) InvoiceStatus {
	if balance.LessThanOrEqual(decimal.Zero) {
		return InvoiceStatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return InvoiceStatusPartiallyPaid
	}
	return current
}

// Invoice is the aggregate root for a customer invoice. Once payments exist
// the balance fields and status are mutated only through ApplyPayment inside
// a guarded unit of work.
//
// Invariant: BalanceAmount == max(TotalAmount - PaidAmount, 0).
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `json:"invoice_number" gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:decimal(18,2);not null"`
	BalanceAmount decimal.Decimal `json:"balance_amount" gorm:"type:decimal(18,2);not null"`
	Status        InvoiceStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	IssueDate     time.Time       `json:"issue_date" gorm:"type:timestamptz;not null"`
	DueDate       *time.Time      `json:"due_date" gorm:"type:timestamptz"`
	PaidAt        *time.Time      `json:"paid_at" gorm:"type:timestamptz"`
	CancelledAt   *time.Time      `json:"cancelled_at" gorm:"type:timestamptz"`
	CancelReason  string          `json:"cancel_reason" gorm:"type:varchar(255)"`
	Notes         string          `json:"notes" gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in DRAFT status
func NewInvoice(invoiceNumber string, customerID uuid.UUID, totalAmount valueobject.Money, dueDate *time.Time) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount must be positive")
	}

	total := totalAmount.RoundToMinorUnit().Amount()
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		TotalAmount:       total,
		PaidAmount:        decimal.Zero,
		BalanceAmount:     total,
		Status:            InvoiceStatusDraft,
		IssueDate:         time.Now(),
		DueDate:           dueDate,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// MarkSent transitions a draft invoice to SENT
func (inv *Invoice) MarkSent() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be marked sent")
	}
	inv.Status = InvoiceStatusSent
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// MarkOverdue transitions an unpaid invoice to OVERDUE. Called by upstream
// scheduling, never by payment application.
func (inv *Invoice) MarkOverdue() error {
	if inv.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent invoices can be marked overdue")
	}
	inv.Status = InvoiceStatusOverdue
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

// ApplyPayment is the reducer applying a payment amount to the invoice
// balance aggregates. The stored balance is clamped to zero to absorb
// sub-cent rounding slack; genuine overpayment is rejected by the guardrail
// before this reducer runs, and re-checked here.
func (inv *Invoice) ApplyPayment(amount valueobject.Money) error {
	if err := CheckInvoicePayable(inv); err != nil {
		return err
	}
	if err := CheckOverpayment(inv, amount); err != nil {
		return err
	}

	applied := amount.RoundToMinorUnit().Amount()
	inv.PaidAmount = inv.PaidAmount.Add(applied)

	balance := inv.TotalAmount.Sub(inv.PaidAmount)
	if balance.IsNegative() {
		// rounding slack only: overpayment was already rejected
		balance = decimal.Zero
	}
	inv.BalanceAmount = balance

	previous := inv.Status
	inv.Status = deriveStatus(inv.Status, inv.PaidAmount, inv.BalanceAmount)

	now := time.Now()
	if inv.Status == InvoiceStatusPaid && previous != InvoiceStatusPaid {
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.AddDomainEvent(NewInvoicePartiallyPaidEvent(inv, applied))
	}

	inv.UpdatedAt = now
	inv.IncrementVersion()
	return nil
}

// Cancel cancels the invoice. Only invoices without payments can be
// cancelled; reversing paid invoices is a separate flow this engine does
// not own.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel invoice in terminal state")
	}
	if inv.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel invoice with existing payments")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))
	return nil
}

// GetTotalAmountMoney returns the total amount as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.TotalAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.PaidAmount)
}

// GetBalanceAmountMoney returns the outstanding balance as Money
func (inv *Invoice) GetBalanceAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(inv.BalanceAmount)
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}

// IsCancelled returns true if the invoice is cancelled
func (inv *Invoice) IsCancelled() bool {
	return inv.Status == InvoiceStatusCancelled
}
