package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nexerp/backend/internal/domain/inventory"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. The stock_movements table is append-only.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement record
func (r *GormStockMovementRepository) Create(ctx context.Context, m *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByProductAndLocation lists movements for a product/location pair, newest first
func (r *GormStockMovementRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Order("movement_date DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference lists movements sharing a reference (both halves of a transfer)
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceID string) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("movement_date ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumByProductAndLocation sums signed movement quantities for a pair
func (r *GormStockMovementRepository) SumByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("SUM(quantity)").
		Where("product_id = ? AND location_id = ?", productID, locationID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
