package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/billing"
)

// ApplyPaymentRequest represents a request to apply a payment to an invoice
type ApplyPaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
}

// CreateInvoiceRequest represents a request to issue a new invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=50"`
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" binding:"required"`
	DueDate       *time.Time      `json:"due_date"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// CancelInvoiceRequest represents a request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	Status        string          `json:"status"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	Version       int             `json:"version"`
}

// PaymentResponse represents a payment journal record in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	PaymentDate time.Time       `json:"payment_date"`
}

// ApplyPaymentResponse is the combined outcome of a payment application
type ApplyPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// CustomerAccountResponse represents the customer balance projection
type CustomerAccountResponse struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceAmount: inv.BalanceAmount,
		Status:        inv.Status.String(),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		Version:       inv.GetVersion(),
	}
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		Method:      p.Method.String(),
		Status:      string(p.Status),
		Reference:   p.Reference,
		PaymentDate: p.PaymentDate,
	}
}

// ToPaymentResponses converts a slice of payments
func ToPaymentResponses(payments []billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}

// ToCustomerAccountResponse converts a domain account to a response DTO
func ToCustomerAccountResponse(a *billing.CustomerAccount) CustomerAccountResponse {
	return CustomerAccountResponse{
		CustomerID:       a.CustomerID,
		TotalPaid:        a.TotalPaid,
		TotalOutstanding: a.TotalOutstanding,
		CurrentBalance:   a.CurrentBalance,
	}
}
