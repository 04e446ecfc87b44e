package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// MovementType represents the type of stock movement
type MovementType string

const (
	// MovementTypeAdjustment is a net quantity change at one location
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	// MovementTypeTransferIn is the inbound half of a cross-location transfer
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut is the outbound half of a cross-location transfer
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeAdjustment, MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// IsTransfer returns true for either half of a transfer
func (t MovementType) IsTransfer() bool {
	return t == MovementTypeTransferIn || t == MovementTypeTransferOut
}

// StockMovement is the immutable journal record of one atomic change to a
// stock level. Once created, movements are never updated or deleted;
// corrections are made with new movements. The running sum of Quantity for a
// (product, location) pair equals the current StockLevel.Quantity for that
// pair.
type StockMovement struct {
	shared.BaseEntity
	ProductID    uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index:idx_stock_movements_product_location,priority:1"`
	WarehouseID  uuid.UUID       `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	LocationID   uuid.UUID       `json:"location_id" gorm:"type:uuid;not null;index:idx_stock_movements_product_location,priority:2"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:decimal(18,4);not null"` // Signed: positive inbound, negative outbound
	MovementType MovementType    `json:"movement_type" gorm:"type:varchar(20);not null;index"`
	ReferenceID  string          `json:"reference_id" gorm:"type:varchar(100);index"`
	Notes        string          `json:"notes" gorm:"type:varchar(500)"`
	CreatedBy    uuid.UUID       `json:"created_by" gorm:"type:uuid;not null"`
	MovementDate time.Time       `json:"movement_date" gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement record
func NewStockMovement(
	productID uuid.UUID,
	warehouseID uuid.UUID,
	locationID uuid.UUID,
	quantity valueobject.Quantity,
	movementType MovementType,
	referenceID string,
	notes string,
	actor shared.Actor,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if movementType == MovementTypeTransferOut && quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer-out quantity must be negative")
	}
	if movementType == MovementTypeTransferIn && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer-in quantity must be positive")
	}
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		WarehouseID:  warehouseID,
		LocationID:   locationID,
		Quantity:     quantity.Decimal(),
		MovementType: movementType,
		ReferenceID:  referenceID,
		Notes:        notes,
		CreatedBy:    actor.UserID,
		MovementDate: time.Now(),
	}, nil
}

// GetQuantityValue returns the signed movement quantity as a value object
func (m *StockMovement) GetQuantityValue() valueobject.Quantity {
	return valueobject.NewQuantity(m.Quantity)
}

// IsInbound returns true if the movement adds stock at its location
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}

// IsOutbound returns true if the movement removes stock at its location
func (m *StockMovement) IsOutbound() bool {
	return m.Quantity.IsNegative()
}
