package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of a POS order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusVoided    OrderStatus = "VOIDED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusCompleted, OrderStatusVoided:
		return true
	}
	return false
}

// OrderLine is one priced line on a POS order. UnitPrice may diverge from
// the catalog price when an override-authorized role priced the line.
type OrderLine struct {
	shared.BaseEntity
	OrderID         uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `json:"product_id" gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
	CatalogPrice    decimal.Decimal `json:"catalog_price" gorm:"type:decimal(18,2);not null"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);not null"`
	OverrideApplied bool            `json:"override_applied" gorm:"not null"`
	LineTotal       decimal.Decimal `json:"line_total" gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "pos_order_lines"
}

// Order is a point-of-sale order aggregate. Lines are priced through
// PriceOrderLine, the discount is capped, and totals are computed in exact
// decimal with rounding applied only to the persisted totals.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string          `json:"order_number" gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      *uuid.UUID      `json:"customer_id" gorm:"type:uuid;index"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null"`
	Lines           []OrderLine     `json:"lines" gorm:"foreignKey:OrderID"`
	SubtotalAmount  decimal.Decimal `json:"subtotal_amount" gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:decimal(5,2);not null"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:decimal(18,2);not null"`
	TaxPercent      decimal.Decimal `json:"tax_percent" gorm:"type:decimal(5,2);not null"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:decimal(18,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(18,2);not null"`
	CreatedBy       uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "pos_orders"
}

// NewOrder creates an empty open order
func NewOrder(orderNumber string, customerID *uuid.UUID, actor shared.Actor) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Status:            OrderStatusOpen,
		Lines:             []OrderLine{},
		SubtotalAmount:    decimal.Zero,
		DiscountPercent:   decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxPercent:        decimal.Zero,
		TaxAmount:         decimal.Zero,
		TotalAmount:       decimal.Zero,
		CreatedBy:         actor.UserID,
	}, nil
}

// AddLine prices and appends a line, running the price-deviation guard with
// the acting role.
func (o *Order) AddLine(productID uuid.UUID, quantity decimal.Decimal, catalogPrice, requestedPrice valueobject.Money, role shared.Role, deviationThreshold decimal.Decimal) error {
	if o.Status != OrderStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to open orders")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}

	priced, err := PriceOrderLine(catalogPrice, requestedPrice, role, deviationThreshold)
	if err != nil {
		return err
	}

	lineTotal := priced.UnitPrice.Multiply(quantity).RoundToMinorUnit()
	line := OrderLine{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         o.ID,
		ProductID:       productID,
		Quantity:        quantity,
		CatalogPrice:    catalogPrice.RoundToMinorUnit().Amount(),
		UnitPrice:       priced.UnitPrice.Amount(),
		OverrideApplied: priced.OverrideApplied,
		LineTotal:       lineTotal.Amount(),
	}
	o.Lines = append(o.Lines, line)

	o.recomputeTotals()
	o.Touch()
	o.IncrementVersion()
	return nil
}

// ApplyDiscount sets the order discount percentage, enforcing the cap
func (o *Order) ApplyDiscount(percent decimal.Decimal, cap decimal.Decimal) error {
	if o.Status != OrderStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Discount can only be applied to open orders")
	}
	if err := CheckDiscountCap(percent, cap); err != nil {
		return err
	}
	o.DiscountPercent = percent
	o.recomputeTotals()
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetTaxPercent sets the flat tax percentage applied after discount
func (o *Order) SetTaxPercent(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX", "Tax percentage cannot be negative")
	}
	o.TaxPercent = percent
	o.recomputeTotals()
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Complete closes the order for further modification
func (o *Order) Complete() error {
	if o.Status != OrderStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open orders can be completed")
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot complete an order with no lines")
	}
	o.Status = OrderStatusCompleted
	o.Touch()
	o.IncrementVersion()
	return nil
}

// recomputeTotals recomputes subtotal, discount, tax, and total in exact
// decimal, rounding half-up at the minor unit only on the persisted fields.
func (o *Order) recomputeTotals() {
	subtotal := decimal.Zero
	for _, line := range o.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	o.SubtotalAmount = subtotal

	hundred := decimal.NewFromInt(100)
	discount := subtotal.Mul(o.DiscountPercent).Div(hundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(o.TaxPercent).Div(hundred)

	o.DiscountAmount = discount.Round(valueobject.MinorUnitPlaces)
	o.TaxAmount = tax.Round(valueobject.MinorUnitPlaces)
	o.TotalAmount = taxable.Add(tax).Round(valueobject.MinorUnitPlaces)
}

// GetTotalAmountMoney returns the order total as Money
func (o *Order) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}
