package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexerp/backend/internal/domain/inventory"
	"github.com/nexerp/backend/internal/domain/shared"
)

// GormStockLevelRepository implements inventory.StockLevelRepository using GORM
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// FindByProductAndLocation finds the level for a product/location pair
func (r *GormStockLevelRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// FindByProductAndLocationForUpdate reads the level row with a
// SELECT ... FOR UPDATE lock. Must run inside an active transaction.
func (r *GormStockLevelRepository) FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	var level inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

// GetOrCreateForUpdate returns the locked level row for a pair, creating it
// with zero quantity on first use. ON CONFLICT handles the race between two
// first movements on the same pair.
func (r *GormStockLevelRepository) GetOrCreateForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	level, err := r.FindByProductAndLocationForUpdate(ctx, productID, locationID)
	if err == nil {
		return level, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	level, err = inventory.NewStockLevel(productID, locationID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(level)
	if result.Error != nil {
		return nil, result.Error
	}

	// If the row wasn't created (conflict), fetch and lock the existing one
	if result.RowsAffected == 0 {
		return r.FindByProductAndLocationForUpdate(ctx, productID, locationID)
	}
	return level, nil
}

// FindByProduct lists all levels for a product across locations
func (r *GormStockLevelRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockLevel, error) {
	var levels []inventory.StockLevel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// Save creates or updates a stock level
func (r *GormStockLevelRepository) Save(ctx context.Context, level *inventory.StockLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

// SumByProduct sums level quantities for a product across all locations
func (r *GormStockLevelRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLevel{}).
		Select("SUM(quantity)").
		Where("product_id = ?", productID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
