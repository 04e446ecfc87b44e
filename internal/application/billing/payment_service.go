package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nexerp/backend/internal/domain/billing"
	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// PaymentService owns the guarded payment-application flow: one payment
// mutates the invoice aggregate, the customer account projection, and the
// append-only payment journal inside a single unit of work.
type PaymentService struct {
	txScope        TransactionScope
	invoiceRepo    billing.InvoiceRepository
	paymentRepo    billing.PaymentRepository
	accountRepo    billing.CustomerAccountRepository
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService. The standalone repositories
// serve read paths; every mutation goes through the transaction scope.
func NewPaymentService(
	txScope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	accountRepo billing.CustomerAccountRepository,
) *PaymentService {
	return &PaymentService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		accountRepo: accountRepo,
	}
}

// SetEventPublisher sets the publisher for domain events. Events are
// published after the unit of work commits; publish failures never affect
// the committed mutation.
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ApplyPayment applies a payment to an invoice atomically. It opens the unit
// of work; callers already inside one use ApplyPaymentInTx instead.
func (s *PaymentService) ApplyPayment(ctx context.Context, actor shared.Actor, req ApplyPaymentRequest) (*ApplyPaymentResponse, error) {
	var resp *ApplyPaymentResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		result, err := s.ApplyPaymentInTx(ctx, repos, actor, req)
		if err != nil {
			return err
		}
		resp = result.Response
		events = result.Events
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return resp, nil
}

// PaymentResult carries the outcome of an in-transaction payment application.
// Events are collected for the caller to publish after its own commit.
type PaymentResult struct {
	Response *ApplyPaymentResponse
	Events   []shared.DomainEvent
}

// ApplyPaymentInTx applies a payment using repositories already scoped to an
// open transaction. This is the inner entry point for flows that compose the
// payment with other mutations in one unit of work.
//
// Lock order: invoice row first, then customer account row. Every payment
// flow takes the same order, so two payments against one invoice serialize
// on the invoice lock without deadlocking.
func (s *PaymentService) ApplyPaymentInTx(ctx context.Context, repos TransactionalRepositories, actor shared.Actor, req ApplyPaymentRequest) (*PaymentResult, error) {
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}
	method := billing.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
	amount := valueobject.NewMoneyUSD(req.Amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	// Guards run against the locked row, then the reducers mutate the
	// aggregate, the projection, and the journal. Any error rolls back all
	// three together.
	if err := billing.CheckInvoicePayable(inv); err != nil {
		return nil, err
	}
	if err := billing.CheckOverpayment(inv, amount); err != nil {
		return nil, err
	}

	if err := inv.ApplyPayment(amount); err != nil {
		return nil, err
	}

	account, err := repos.AccountRepo().GetOrCreate(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := account.ApplyPayment(amount); err != nil {
		return nil, err
	}

	payment, err := billing.NewPayment(inv.ID, inv.CustomerID, amount, method, req.Reference, actor)
	if err != nil {
		return nil, err
	}

	if err := repos.InvoiceRepo().SaveWithVersion(ctx, inv); err != nil {
		return nil, err
	}
	if err := repos.AccountRepo().Save(ctx, account); err != nil {
		return nil, err
	}
	if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
		return nil, err
	}

	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()

	return &PaymentResult{
		Response: &ApplyPaymentResponse{
			Payment: ToPaymentResponse(payment),
			Invoice: ToInvoiceResponse(inv),
		},
		Events: events,
	}, nil
}

// CreateInvoice issues a new invoice and registers its total on the customer
// account projection in one unit of work.
func (s *PaymentService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := billing.NewInvoice(req.InvoiceNumber, req.CustomerID, valueobject.NewMoneyUSD(req.TotalAmount), req.DueDate)
	if err != nil {
		return nil, err
	}
	inv.Notes = req.Notes

	var events []shared.DomainEvent
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if existing, err := repos.InvoiceRepo().FindByNumber(ctx, req.InvoiceNumber); err == nil && existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Invoice number already in use")
		} else if err != nil && !shared.IsNotFound(err) {
			return err
		}

		account, err := repos.AccountRepo().GetOrCreate(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if err := account.RegisterInvoice(inv.GetTotalAmountMoney()); err != nil {
			return err
		}

		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return err
		}
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}

		events = inv.GetDomainEvents()
		inv.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// MarkInvoiceSent transitions a draft invoice to SENT
func (s *PaymentService) MarkInvoiceSent(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transitionInvoice(ctx, invoiceID, (*billing.Invoice).MarkSent)
}

// MarkInvoiceOverdue transitions a sent invoice to OVERDUE
func (s *PaymentService) MarkInvoiceOverdue(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transitionInvoice(ctx, invoiceID, (*billing.Invoice).MarkOverdue)
}

// CancelInvoice cancels an invoice without payments
func (s *PaymentService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	return s.transitionInvoice(ctx, invoiceID, func(inv *billing.Invoice) error {
		return inv.Cancel(req.Reason)
	})
}

// transitionInvoice runs a status transition on the locked invoice row
func (s *PaymentService) transitionInvoice(ctx context.Context, invoiceID uuid.UUID, fn func(*billing.Invoice) error) (*InvoiceResponse, error) {
	var resp *InvoiceResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := fn(inv); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithVersion(ctx, inv); err != nil {
			return err
		}
		events = inv.GetDomainEvents()
		inv.ClearDomainEvents()
		r := ToInvoiceResponse(inv)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return resp, nil
}

// GetInvoice retrieves an invoice by ID
func (s *PaymentService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListPayments lists the payment journal for an invoice
func (s *PaymentService) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// GetCustomerAccount retrieves the balance projection for a customer. A
// customer without an account row has simply never paid anything; the read
// path reports zero balances instead of inserting a row.
func (s *PaymentService) GetCustomerAccount(ctx context.Context, customerID uuid.UUID) (*CustomerAccountResponse, error) {
	account, err := s.accountRepo.FindByCustomer(ctx, customerID)
	if errors.Is(err, shared.ErrNotFound) {
		account, err = billing.NewCustomerAccount(customerID)
	}
	if err != nil {
		return nil, err
	}
	resp := ToCustomerAccountResponse(account)
	return &resp, nil
}

// publishEvents publishes domain events after a committed unit of work.
// Errors are handled by the publisher, never propagated to the caller.
func (s *PaymentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
