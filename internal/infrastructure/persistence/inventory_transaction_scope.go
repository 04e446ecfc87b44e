package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/nexerp/backend/internal/application/inventory"
	"github.com/nexerp/backend/internal/domain/inventory"
)

// GormInventoryTransactionScope implements inventory.TransactionScope using
// GORM transactions. All repository operations within Execute share one
// database transaction and commit or roll back atomically.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction with a
// bounded lock wait
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return runInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := &gormInventoryTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormInventoryTransactionalRepositories provides inventory repositories
// bound to a single GORM transaction
type gormInventoryTransactionalRepositories struct {
	tx *gorm.DB
}

// LevelRepo returns the stock level repository scoped to the current transaction
func (r *gormInventoryTransactionalRepositories) LevelRepo() inventory.StockLevelRepository {
	return NewGormStockLevelRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormInventoryTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// ProductStockRepo returns the product total repository scoped to the current transaction
func (r *gormInventoryTransactionalRepositories) ProductStockRepo() inventory.ProductStockRepository {
	return NewGormProductStockRepository(r.tx)
}

// Ensure interface compliance
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormInventoryTransactionalRepositories)(nil)
