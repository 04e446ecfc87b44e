package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexerp/backend/internal/domain/pos"
	"github.com/nexerp/backend/internal/domain/shared"
)

// GormOrderRepository implements pos.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists a new order with its lines
func (r *GormOrderRepository) Create(ctx context.Context, o *pos.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// FindByID finds an order by its ID, preloading lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Order, error) {
	var order pos.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its human-readable number, preloading lines
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*pos.Order, error) {
	var order pos.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Save updates an existing order
func (r *GormOrderRepository) Save(ctx context.Context, o *pos.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}
