package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodOnline, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus represents the status of a payment record
type PaymentStatus string

const (
	// PaymentStatusCompleted is the status every payment is created with
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	// PaymentStatusReversed marks a payment voided by a reversal flow
	// (the reversal flow itself lives outside this engine)
	PaymentStatusReversed PaymentStatus = "REVERSED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusReversed
}

// Payment is the immutable journal record of one payment applied to an
// invoice. It is created exactly once, in the same transaction as the
// invoice and customer-account updates, and never mutated afterward.
type Payment struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;not null;index:idx_payments_invoice"`
	CustomerID  uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index:idx_payments_customer"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	PaymentDate time.Time       `json:"payment_date" gorm:"type:timestamptz;not null;index"`
	Method      PaymentMethod   `json:"method" gorm:"type:varchar(20);not null"`
	Status      PaymentStatus   `json:"status" gorm:"type:varchar(20);not null"`
	Reference   string          `json:"reference" gorm:"type:varchar(100)"`
	CreatedBy   uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record
func NewPayment(
	invoiceID uuid.UUID,
	customerID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	reference string,
	actor shared.Actor,
) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}

	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		CustomerID:  customerID,
		Amount:      amount.RoundToMinorUnit().Amount(),
		PaymentDate: time.Now(),
		Method:      method,
		Status:      PaymentStatusCompleted,
		Reference:   reference,
		CreatedBy:   actor.UserID,
	}, nil
}

// GetAmountMoney returns the payment amount as Money
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Amount)
}
