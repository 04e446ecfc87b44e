package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/inventory"
	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// StockService owns the guarded stock mutations: adjustments and transfers.
// Each mutation updates the per-location level, the product total, and the
// append-only movement journal inside a single unit of work.
type StockService struct {
	txScope        TransactionScope
	levelRepo      inventory.StockLevelRepository
	movementRepo   inventory.StockMovementRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService. The standalone repositories
// serve read paths; every mutation goes through the transaction scope.
func NewStockService(
	txScope TransactionScope,
	levelRepo inventory.StockLevelRepository,
	movementRepo inventory.StockMovementRepository,
) *StockService {
	return &StockService{
		txScope:      txScope,
		levelRepo:    levelRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the publisher for domain events, published after the
// unit of work commits.
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustStock applies a signed quantity change at one location. It opens the
// unit of work; callers already inside one use AdjustStockInTx instead.
func (s *StockService) AdjustStock(ctx context.Context, actor shared.Actor, req AdjustStockRequest) (*AdjustStockResponse, error) {
	var resp *AdjustStockResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		result, err := s.AdjustStockInTx(ctx, repos, actor, req)
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

// AdjustResult carries the outcome of an in-transaction adjustment. Events
// are collected for the caller to publish after its own commit.
type AdjustResult struct {
	Response *AdjustStockResponse
	Events   []shared.DomainEvent
}

// AdjustStockInTx applies an adjustment using repositories already scoped to
// an open transaction. This is the inner entry point for flows composing the
// adjustment with other mutations, such as a sale that decrements stock in
// the same unit of work as its own writes.
func (s *StockService) AdjustStockInTx(ctx context.Context, repos TransactionalRepositories, actor shared.Actor, req AdjustStockRequest) (*AdjustResult, error) {
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}
	delta := valueobject.NewQuantity(req.Quantity)
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}

	level, err := repos.LevelRepo().GetOrCreateForUpdate(ctx, req.ProductID, req.LocationID)
	if err != nil {
		return nil, err
	}

	if err := inventory.CheckAdjustment(level, delta, req.IsCorrection); err != nil {
		return nil, err
	}
	if err := level.Apply(delta); err != nil {
		return nil, err
	}

	total, err := repos.ProductStockRepo().GetOrCreateForUpdate(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := total.Apply(delta); err != nil {
		return nil, err
	}

	movement, err := inventory.NewStockMovement(
		req.ProductID, req.WarehouseID, req.LocationID,
		delta, inventory.MovementTypeAdjustment,
		req.ReferenceID, req.Notes, actor,
	)
	if err != nil {
		return nil, err
	}

	if err := repos.LevelRepo().Save(ctx, level); err != nil {
		return nil, err
	}
	if err := repos.ProductStockRepo().Save(ctx, total); err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, err
	}

	return &AdjustResult{
		Response: &AdjustStockResponse{
			Movement: ToStockMovementResponse(movement),
			Level:    ToStockLevelResponse(level),
		},
		Events: []shared.DomainEvent{inventory.NewStockAdjustedEvent(level, delta)},
	}, nil
}

// TransferStock moves a positive quantity between two locations of the same
// product atomically: one outbound movement, one inbound movement sharing a
// reference ID, and both level rows updated. The product total is untouched;
// a transfer is a cross-location move, not a net quantity change.
func (s *StockService) TransferStock(ctx context.Context, actor shared.Actor, req TransferStockRequest) (*TransferStockResponse, error) {
	var resp *TransferStockResponse
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		result, err := s.TransferStockInTx(ctx, repos, actor, req)
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

// TransferResult carries the outcome of an in-transaction transfer
type TransferResult struct {
	Response *TransferStockResponse
	Events   []shared.DomainEvent
}

// TransferStockInTx is the inner entry point for transfers inside an already
// open unit of work.
func (s *StockService) TransferStockInTx(ctx context.Context, repos TransactionalRepositories, actor shared.Actor, req TransferStockRequest) (*TransferResult, error) {
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}
	qty := valueobject.NewQuantity(req.Quantity)
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination locations must differ")
	}

	source, dest, err := lockLevelPair(ctx, repos.LevelRepo(), req.ProductID, req.FromLocationID, req.ToLocationID)
	if err != nil {
		return nil, err
	}

	if err := inventory.CheckTransferSufficiency(source, qty); err != nil {
		return nil, err
	}
	if err := source.Apply(qty.Negate()); err != nil {
		return nil, err
	}
	if err := dest.Apply(qty); err != nil {
		return nil, err
	}

	referenceID := uuid.NewString()
	outbound, err := inventory.NewStockMovement(
		req.ProductID, req.WarehouseID, req.FromLocationID,
		qty.Negate(), inventory.MovementTypeTransferOut,
		referenceID, req.Notes, actor,
	)
	if err != nil {
		return nil, err
	}
	inbound, err := inventory.NewStockMovement(
		req.ProductID, req.WarehouseID, req.ToLocationID,
		qty, inventory.MovementTypeTransferIn,
		referenceID, req.Notes, actor,
	)
	if err != nil {
		return nil, err
	}

	if err := repos.LevelRepo().Save(ctx, source); err != nil {
		return nil, err
	}
	if err := repos.LevelRepo().Save(ctx, dest); err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, outbound); err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, inbound); err != nil {
		return nil, err
	}

	event := inventory.NewStockTransferredEvent(req.ProductID, req.FromLocationID, req.ToLocationID, qty, referenceID)
	return &TransferResult{
		Response: &TransferStockResponse{
			ReferenceID: referenceID,
			Outbound:    ToStockMovementResponse(outbound),
			Inbound:     ToStockMovementResponse(inbound),
			FromLevel:   ToStockLevelResponse(source),
			ToLevel:     ToStockLevelResponse(dest),
		},
		Events: []shared.DomainEvent{event},
	}, nil
}

// lockLevelPair locks both level rows of a transfer in lexical order of
// location ID. Concurrent transfers A->B and B->A then acquire the two locks
// in the same order and cannot deadlock.
func lockLevelPair(ctx context.Context, repo inventory.StockLevelRepository, productID, fromID, toID uuid.UUID) (source, dest *inventory.StockLevel, err error) {
	first, second := fromID, toID
	if strings.Compare(toID.String(), fromID.String()) < 0 {
		first, second = toID, fromID
	}

	firstLevel, err := repo.GetOrCreateForUpdate(ctx, productID, first)
	if err != nil {
		return nil, nil, err
	}
	secondLevel, err := repo.GetOrCreateForUpdate(ctx, productID, second)
	if err != nil {
		return nil, nil, err
	}

	if first == fromID {
		return firstLevel, secondLevel, nil
	}
	return secondLevel, firstLevel, nil
}

// GetStockLevel retrieves the level for a product/location pair
func (s *StockService) GetStockLevel(ctx context.Context, productID, locationID uuid.UUID) (*StockLevelResponse, error) {
	level, err := s.levelRepo.FindByProductAndLocation(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	resp := ToStockLevelResponse(level)
	return &resp, nil
}

// GetTotalByProduct returns the summed quantity for a product across locations
func (s *StockService) GetTotalByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return s.levelRepo.SumByProduct(ctx, productID)
}

// ListMovements lists the movement journal for a product/location pair
func (s *StockService) ListMovements(ctx context.Context, productID, locationID uuid.UUID) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByProductAndLocation(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	return ToStockMovementResponses(movements), nil
}

// ListMovementsByReference lists both halves of a transfer by reference ID
func (s *StockService) ListMovementsByReference(ctx context.Context, referenceID string) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	return ToStockMovementResponses(movements), nil
}

// publishEvents publishes domain events after a committed unit of work.
// Errors are handled by the publisher, never propagated to the caller.
func (s *StockService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
