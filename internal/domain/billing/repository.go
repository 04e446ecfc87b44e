package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository is the persistence port for invoices
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate reads the invoice row with a transaction-scoped
	// row lock, serializing concurrent mutations of the same invoice.
	// Must be called inside an active unit of work.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByNumber finds an invoice by its human-readable number
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// FindByCustomer lists invoices for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Invoice, error)
	// Save creates or updates an invoice
	Save(ctx context.Context, inv *Invoice) error
	// SaveWithVersion updates an invoice checking the optimistic version column
	SaveWithVersion(ctx context.Context, inv *Invoice) error
}

// PaymentRepository is the persistence port for the payment journal.
// Payments are append-only: there is no update or delete.
type PaymentRepository interface {
	// Create appends a payment record
	Create(ctx context.Context, p *Payment) error
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByInvoice lists all payments applied to an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	// SumByInvoice sums payment amounts for an invoice (journal-side view
	// of the invoice PaidAmount aggregate)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}

// CustomerAccountRepository is the persistence port for customer balance
// projections
type CustomerAccountRepository interface {
	// FindByCustomer reads the account row without locking, for read paths
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerAccount, error)
	// FindByCustomerForUpdate reads the account row with a transaction-scoped
	// row lock. Must be called inside an active unit of work.
	FindByCustomerForUpdate(ctx context.Context, customerID uuid.UUID) (*CustomerAccount, error)
	// GetOrCreate returns the account for a customer, creating the row on
	// first use
	GetOrCreate(ctx context.Context, customerID uuid.UUID) (*CustomerAccount, error)
	// Save creates or updates an account projection
	Save(ctx context.Context, a *CustomerAccount) error
}
