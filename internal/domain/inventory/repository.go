package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLevelRepository is the persistence port for stock levels
type StockLevelRepository interface {
	// FindByProductAndLocation finds the level for a product/location pair
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*StockLevel, error)
	// FindByProductAndLocationForUpdate reads the level row with a
	// transaction-scoped row lock, serializing concurrent mutations of the
	// same pair. Must be called inside an active unit of work.
	FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*StockLevel, error)
	// GetOrCreateForUpdate returns the locked level row for a pair, creating
	// it with zero quantity on first use
	GetOrCreateForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*StockLevel, error)
	// FindByProduct lists all levels for a product across locations
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockLevel, error)
	// Save creates or updates a stock level
	Save(ctx context.Context, level *StockLevel) error
	// SumByProduct sums level quantities for a product across all locations
	SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// StockMovementRepository is the persistence port for the movement journal.
// Movements are append-only: there is no update or delete.
type StockMovementRepository interface {
	// Create appends a movement record
	Create(ctx context.Context, m *StockMovement) error
	// FindByProductAndLocation lists movements for a product/location pair
	FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) ([]StockMovement, error)
	// FindByReference lists movements sharing a reference (both halves of a transfer)
	FindByReference(ctx context.Context, referenceID string) ([]StockMovement, error)
	// SumByProductAndLocation sums signed movement quantities for a pair
	// (journal-side view of the StockLevel.Quantity aggregate)
	SumByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error)
}

// ProductStockRepository is the persistence port for product totals
type ProductStockRepository interface {
	// GetOrCreateForUpdate returns the locked product total row, creating it
	// with zero quantity on first use
	GetOrCreateForUpdate(ctx context.Context, productID uuid.UUID) (*ProductStock, error)
	// FindByProduct finds the total row for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) (*ProductStock, error)
	// Save creates or updates a product total
	Save(ctx context.Context, p *ProductStock) error
}
