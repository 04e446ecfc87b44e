package billing

import (
	"context"

	"github.com/nexerp/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all billing repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - InvoiceRepo: repository for the Invoice aggregate root. The invoice
//     row is read FOR UPDATE before any mutation.
//   - PaymentRepo: append-only repository for payment journal records.
//   - AccountRepo: repository for the denormalized CustomerAccount
//     projection, also read FOR UPDATE inside the unit of work.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() billing.PaymentRepository
	// AccountRepo returns the customer account repository scoped to the current transaction
	AccountRepo() billing.CustomerAccountRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	accountRepo billing.CustomerAccountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	accountRepo billing.CustomerAccountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() billing.PaymentRepository {
	return s.paymentRepo
}

// AccountRepo returns the customer account repository.
func (s *NoOpTransactionScope) AccountRepo() billing.CustomerAccountRepository {
	return s.accountRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
