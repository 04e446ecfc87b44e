package inventory

import (
	"context"

	"github.com/nexerp/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - LevelRepo: repository for per-location StockLevel rows, read FOR
//     UPDATE before any mutation. Transfers lock both location rows in a
//     deterministic order.
//   - MovementRepo: append-only repository for the movement journal.
//   - ProductStockRepo: repository for the cross-location product total.
type TransactionalRepositories interface {
	// LevelRepo returns the stock level repository scoped to the current transaction
	LevelRepo() inventory.StockLevelRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// ProductStockRepo returns the product total repository scoped to the current transaction
	ProductStockRepo() inventory.ProductStockRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	levelRepo        inventory.StockLevelRepository
	movementRepo     inventory.StockMovementRepository
	productStockRepo inventory.ProductStockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	levelRepo inventory.StockLevelRepository,
	movementRepo inventory.StockMovementRepository,
	productStockRepo inventory.ProductStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		levelRepo:        levelRepo,
		movementRepo:     movementRepo,
		productStockRepo: productStockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LevelRepo returns the stock level repository.
func (s *NoOpTransactionScope) LevelRepo() inventory.StockLevelRepository {
	return s.levelRepo
}

// MovementRepo returns the movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// ProductStockRepo returns the product total repository.
func (s *NoOpTransactionScope) ProductStockRepo() inventory.ProductStockRepository {
	return s.productStockRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
