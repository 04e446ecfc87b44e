package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// CustomerAccount is the denormalized balance projection for a customer.
// Totals are recomputed additively on each payment, never by a full re-scan
// in the hot path.
type CustomerAccount struct {
	shared.BaseAggregateRoot
	CustomerID       uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;uniqueIndex"`
	TotalPaid        decimal.Decimal `json:"total_paid" gorm:"type:decimal(18,2);not null"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding" gorm:"type:decimal(18,2);not null"`
	CurrentBalance   decimal.Decimal `json:"current_balance" gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (CustomerAccount) TableName() string {
	return "customer_accounts"
}

// NewCustomerAccount creates a zeroed account projection for a customer
func NewCustomerAccount(customerID uuid.UUID) (*CustomerAccount, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &CustomerAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		TotalPaid:         decimal.Zero,
		TotalOutstanding:  decimal.Zero,
		CurrentBalance:    decimal.Zero,
	}, nil
}

// RegisterInvoice adds a newly issued invoice total to the outstanding
// projection.
func (a *CustomerAccount) RegisterInvoice(total valueobject.Money) error {
	if !total.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	a.TotalOutstanding = a.TotalOutstanding.Add(total.RoundToMinorUnit().Amount())
	a.recomputeBalance()
	a.Touch()
	a.IncrementVersion()
	return nil
}

// ApplyPayment is the reducer mirroring Invoice.ApplyPayment on the customer
// projection: TotalPaid grows by the payment amount, TotalOutstanding shrinks
// (clamped at zero for rounding slack), and CurrentBalance is recomputed.
func (a *CustomerAccount) ApplyPayment(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	applied := amount.RoundToMinorUnit().Amount()
	a.TotalPaid = a.TotalPaid.Add(applied)

	outstanding := a.TotalOutstanding.Sub(applied)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}
	a.TotalOutstanding = outstanding

	a.recomputeBalance()
	a.Touch()
	a.IncrementVersion()
	return nil
}

func (a *CustomerAccount) recomputeBalance() {
	a.CurrentBalance = a.TotalOutstanding.Neg()
}

// GetTotalPaidMoney returns total paid as Money
func (a *CustomerAccount) GetTotalPaidMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.TotalPaid)
}

// GetTotalOutstandingMoney returns total outstanding as Money
func (a *CustomerAccount) GetTotalOutstandingMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.TotalOutstanding)
}

// GetCurrentBalanceMoney returns the current balance as Money
func (a *CustomerAccount) GetCurrentBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(a.CurrentBalance)
}
