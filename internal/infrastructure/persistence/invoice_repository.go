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

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByIDForUpdate reads the invoice row with a SELECT ... FOR UPDATE lock.
// Must run inside an active transaction.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByNumber finds an invoice by its human-readable number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "invoice_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByCustomer lists invoices for a customer, newest first
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("issue_date DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// SaveWithVersion updates an invoice checking the optimistic version column.
// The aggregate's domain methods have already incremented Version, so the
// row must still hold the previous value.
func (r *GormInvoiceRepository) SaveWithVersion(ctx context.Context, inv *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(inv).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(map[string]interface{}{
			"paid_amount":    inv.PaidAmount,
			"balance_amount": inv.BalanceAmount,
			"status":         inv.Status,
			"paid_at":        inv.PaidAt,
			"cancelled_at":   inv.CancelledAt,
			"cancel_reason":  inv.CancelReason,
			"version":        inv.Version,
			"updated_at":     inv.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflictRetryable
	}
	return nil
}
