package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// ProductStock is the denormalized total quantity of a product across all
// locations. Invariant: Quantity equals the sum of StockLevel.Quantity over
// every location holding the product. Adjustments move it by their delta;
// transfers leave it unchanged because they are cross-location moves, not
// net quantity changes.
type ProductStock struct {
	shared.BaseAggregateRoot
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex"`
	Quantity  decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stocks"
}

// NewProductStock creates a zeroed product total
func NewProductStock(productID uuid.UUID) (*ProductStock, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &ProductStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Quantity:          decimal.Zero,
	}, nil
}

// Apply adds a signed delta to the product total. The per-location
// non-negativity guard has already run; the cross-location total can only go
// negative through a bug, so it is rejected outright.
func (p *ProductStock) Apply(delta valueobject.Quantity) error {
	next := valueobject.NewQuantity(p.Quantity).Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INVALID_STATE", "Product total quantity cannot go negative")
	}
	p.Quantity = next.Decimal()
	p.Touch()
	p.IncrementVersion()
	return nil
}

// GetQuantityValue returns the product total as a value object
func (p *ProductStock) GetQuantityValue() valueobject.Quantity {
	return valueobject.NewQuantity(p.Quantity)
}
