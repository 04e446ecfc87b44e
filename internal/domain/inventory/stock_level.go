package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// StockLevel is the denormalized running quantity for one product at one
// location. It must equal the running sum of all StockMovement quantities
// for the same (product, location) pair, and is never allowed to go
// negative.
type StockLevel struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_product_location,priority:1"`
	LocationID uuid.UUID       `json:"location_id" gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_product_location,priority:2"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a zero-quantity stock level for a product/location
// pair. Rows are created lazily on the first movement touching the pair.
func NewStockLevel(productID, locationID uuid.UUID) (*StockLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	return &StockLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		LocationID:        locationID,
		Quantity:          decimal.Zero,
	}, nil
}

// Apply is the reducer mapping (current level, signed delta) to the new
// level. The caller runs the stock-sufficiency guard first; Apply re-checks
// the non-negativity invariant so the aggregate and the guard can never
// drift apart.
func (s *StockLevel) Apply(delta valueobject.Quantity) error {
	next := s.GetQuantityValue().Add(delta)
	if next.IsNegative() {
		return shared.NewGuardrailError(
			shared.GuardrailNegativeStock,
			"applying delta %s to quantity %s at location %s would go below zero",
			delta.String(), s.Quantity.String(), s.LocationID,
		)
	}
	s.Quantity = next.Decimal()
	s.Touch()
	s.IncrementVersion()
	return nil
}

// CanFulfill returns true if the location holds at least the requested
// outbound quantity
func (s *StockLevel) CanFulfill(quantity valueobject.Quantity) bool {
	return !s.GetQuantityValue().LessThan(quantity)
}

// GetQuantityValue returns the level as a Quantity value object
func (s *StockLevel) GetQuantityValue() valueobject.Quantity {
	return valueobject.NewQuantity(s.Quantity)
}

// IsEmpty returns true if no stock is held at this location
func (s *StockLevel) IsEmpty() bool {
	return s.Quantity.IsZero()
}
