package pos

import (
	"context"

	appinv "github.com/nexerp/backend/internal/application/inventory"
	"github.com/nexerp/backend/internal/domain/pos"
)

// TransactionScope provides transactional access to POS repositories. A
// completed sale writes the order and decrements stock in one database
// transaction, so the scope also exposes transaction-bound inventory
// repositories.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to POS and inventory
// repositories sharing one underlying database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() pos.OrderRepository
	// Inventory returns inventory repositories bound to the same transaction,
	// for stock mutations composed into the sale
	Inventory() appinv.TransactionalRepositories
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	orderRepo pos.OrderRepository
	inventory appinv.TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo pos.OrderRepository, inventory appinv.TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, inventory: inventory}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() pos.OrderRepository {
	return s.orderRepo
}

// Inventory returns the inventory repositories.
func (s *NoOpTransactionScope) Inventory() appinv.TransactionalRepositories {
	return s.inventory
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
