package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// Event types for the inventory domain
const (
	EventTypeStockAdjusted    = "inventory.stock.adjusted"
	EventTypeStockTransferred = "inventory.stock.transferred"
)

const aggregateTypeStockLevel = "StockLevel"

// StockAdjustedEvent is raised when a stock level changes by a net delta
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Delta      decimal.Decimal `json:"delta"`
	NewLevel   decimal.Decimal `json:"new_level"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(level *StockLevel, delta valueobject.Quantity) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeStockLevel, level.ID),
		ProductID:       level.ProductID,
		LocationID:      level.LocationID,
		Delta:           delta.Decimal(),
		NewLevel:        level.Quantity,
	}
}

// StockTransferredEvent is raised when stock moves between two locations
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	FromLocationID uuid.UUID       `json:"from_location_id"`
	ToLocationID   uuid.UUID       `json:"to_location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ReferenceID    string          `json:"reference_id"`
}

// NewStockTransferredEvent creates a StockTransferredEvent
func NewStockTransferredEvent(productID, fromLocationID, toLocationID uuid.UUID, quantity valueobject.Quantity, referenceID string) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, aggregateTypeStockLevel, productID),
		ProductID:       productID,
		FromLocationID:  fromLocationID,
		ToLocationID:    toLocationID,
		Quantity:        quantity.Decimal(),
		ReferenceID:     referenceID,
	}
}
