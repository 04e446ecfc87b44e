package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/nexerp/backend/internal/application/billing"
	"github.com/nexerp/backend/internal/domain/billing"
)

// GormBillingTransactionScope implements billing.TransactionScope using GORM
// transactions. All repository operations within Execute share one database
// transaction and commit or roll back atomically.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction with a
// bounded lock wait
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return runInTransaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := &gormBillingTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormBillingTransactionalRepositories provides billing repositories bound to
// a single GORM transaction
type gormBillingTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormBillingTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormBillingTransactionalRepositories) PaymentRepo() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// AccountRepo returns the customer account repository scoped to the current transaction
func (r *gormBillingTransactionalRepositories) AccountRepo() billing.CustomerAccountRepository {
	return NewGormCustomerAccountRepository(r.tx)
}

// Ensure interface compliance
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingTransactionalRepositories)(nil)
