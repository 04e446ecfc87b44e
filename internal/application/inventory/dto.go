package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/inventory"
)

// AdjustStockRequest represents a request to adjust stock at one location.
// Quantity is signed: positive receives, negative removes.
type AdjustStockRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID  uuid.UUID       `json:"warehouse_id" binding:"required"`
	LocationID   uuid.UUID       `json:"location_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	IsCorrection bool            `json:"is_correction"`
	ReferenceID  string          `json:"reference_id" binding:"max=100"`
	Notes        string          `json:"notes" binding:"max=500"`
}

// TransferStockRequest represents a request to move stock between two
// locations. Quantity is always positive; the outbound half is recorded
// negative.
type TransferStockRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	WarehouseID    uuid.UUID       `json:"warehouse_id" binding:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Notes          string          `json:"notes" binding:"max=500"`
}

// StockLevelResponse represents a stock level in API responses
type StockLevelResponse struct {
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Version    int             `json:"version"`
}

// StockMovementResponse represents a movement journal record
type StockMovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	LocationID   uuid.UUID       `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MovementType string          `json:"movement_type"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
}

// AdjustStockResponse is the outcome of an adjustment
type AdjustStockResponse struct {
	Movement StockMovementResponse `json:"movement"`
	Level    StockLevelResponse    `json:"level"`
}

// TransferStockResponse is the outcome of a transfer: both journal halves and
// both updated levels.
type TransferStockResponse struct {
	ReferenceID string                `json:"reference_id"`
	Outbound    StockMovementResponse `json:"outbound"`
	Inbound     StockMovementResponse `json:"inbound"`
	FromLevel   StockLevelResponse    `json:"from_level"`
	ToLevel     StockLevelResponse    `json:"to_level"`
}

// ToStockLevelResponse converts a domain level to a response DTO
func ToStockLevelResponse(level *inventory.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:  level.ProductID,
		LocationID: level.LocationID,
		Quantity:   level.Quantity,
		UpdatedAt:  level.UpdatedAt,
		Version:    level.GetVersion(),
	}
}

// ToStockMovementResponse converts a domain movement to a response DTO
func ToStockMovementResponse(m *inventory.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		WarehouseID:  m.WarehouseID,
		LocationID:   m.LocationID,
		Quantity:     m.Quantity,
		MovementType: m.MovementType.String(),
		ReferenceID:  m.ReferenceID,
		Notes:        m.Notes,
		MovementDate: m.MovementDate,
	}
}

// ToStockMovementResponses converts a slice of movements
func ToStockMovementResponses(movements []inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}
