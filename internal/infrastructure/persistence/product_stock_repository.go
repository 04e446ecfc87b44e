package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexerp/backend/internal/domain/inventory"
	"github.com/nexerp/backend/internal/domain/shared"
)

// GormProductStockRepository implements inventory.ProductStockRepository using GORM
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// GetOrCreateForUpdate returns the locked product total row, creating it with
// zero quantity on first use
func (r *GormProductStockRepository) GetOrCreateForUpdate(ctx context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	total, err := r.findForUpdate(ctx, productID)
	if err == nil {
		return total, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	total, err = inventory.NewProductStock(productID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(total)
	if result.Error != nil {
		return nil, result.Error
	}

	// If the row wasn't created (conflict), fetch and lock the existing one
	if result.RowsAffected == 0 {
		return r.findForUpdate(ctx, productID)
	}
	return total, nil
}

// FindByProduct finds the total row for a product
func (r *GormProductStockRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	var total inventory.ProductStock
	if err := r.db.WithContext(ctx).
		First(&total, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &total, nil
}

// Save creates or updates a product total
func (r *GormProductStockRepository) Save(ctx context.Context, p *inventory.ProductStock) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GormProductStockRepository) findForUpdate(ctx context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	var total inventory.ProductStock
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&total, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &total, nil
}
