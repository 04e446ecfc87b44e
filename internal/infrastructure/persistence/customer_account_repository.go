package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nexerp/backend/internal/domain/billing"
	"github.com/nexerp/backend/internal/domain/shared"
)

// GormCustomerAccountRepository implements billing.CustomerAccountRepository using GORM
type GormCustomerAccountRepository struct {
	db *gorm.DB
}

// NewGormCustomerAccountRepository creates a new GormCustomerAccountRepository
func NewGormCustomerAccountRepository(db *gorm.DB) *GormCustomerAccountRepository {
	return &GormCustomerAccountRepository{db: db}
}

// FindByCustomer reads the account row without locking
func (r *GormCustomerAccountRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*billing.CustomerAccount, error) {
	var account billing.CustomerAccount
	if err := r.db.WithContext(ctx).
		First(&account, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByCustomerForUpdate reads the account row with a SELECT ... FOR UPDATE
// lock. Must run inside an active transaction.
func (r *GormCustomerAccountRepository) FindByCustomerForUpdate(ctx context.Context, customerID uuid.UUID) (*billing.CustomerAccount, error) {
	var account billing.CustomerAccount
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetOrCreate returns the account for a customer, creating the row on first
// use. ON CONFLICT handles the race between two first payments.
func (r *GormCustomerAccountRepository) GetOrCreate(ctx context.Context, customerID uuid.UUID) (*billing.CustomerAccount, error) {
	account, err := r.FindByCustomerForUpdate(ctx, customerID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	account, err = billing.NewCustomerAccount(customerID)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(account)
	if result.Error != nil {
		return nil, result.Error
	}

	// If the row wasn't created (conflict), fetch and lock the existing one
	if result.RowsAffected == 0 {
		return r.FindByCustomerForUpdate(ctx, customerID)
	}
	return account, nil
}

// Save creates or updates an account projection
func (r *GormCustomerAccountRepository) Save(ctx context.Context, a *billing.CustomerAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}
