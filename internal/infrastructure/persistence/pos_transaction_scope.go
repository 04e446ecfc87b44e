package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/nexerp/backend/internal/application/inventory"
	apppos "github.com/nexerp/backend/internal/application/pos"
	"github.com/nexerp/backend/internal/domain/pos"
)

// GormPOSTransactionScope implements pos.TransactionScope using GORM
// transactions. The order write and the stock decrements of a sale share one
// database transaction.
type GormPOSTransactionScope struct {
	db *gorm.DB
}

// NewGormPOSTransactionScope creates a new GormPOSTransactionScope
func NewGormPOSTransactionScope(db *gorm.DB) *GormPOSTransactionScope {
	return &GormPOSTransactionScope{db: db}
}

// Execute runs the given function within a database transaction with a
// bounded lock wait
func (s *GormPOSTransactionScope) Execute(ctx context.Context, fn func(repos apppos.TransactionalRepositories) error) error {
	return runInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := &gormPOSTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormPOSTransactionalRepositories provides POS and inventory repositories
// bound to a single GORM transaction
type gormPOSTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormPOSTransactionalRepositories) OrderRepo() pos.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Inventory returns inventory repositories bound to the same transaction
func (r *gormPOSTransactionalRepositories) Inventory() appinv.TransactionalRepositories {
	return &gormInventoryTransactionalRepositories{tx: r.tx}
}

// Ensure interface compliance
var _ apppos.TransactionScope = (*GormPOSTransactionScope)(nil)
var _ apppos.TransactionalRepositories = (*gormPOSTransactionalRepositories)(nil)
