package pos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/nexerp/backend/internal/application/inventory"
	"github.com/nexerp/backend/internal/domain/pos"
	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// PricingPolicy carries the guardrail thresholds applied at checkout.
// Configuration may lower the defaults but never raise them.
type PricingPolicy struct {
	PriceDeviationPercent decimal.Decimal
	DiscountCapPercent    decimal.Decimal
}

// DefaultPricingPolicy returns the built-in thresholds
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		PriceDeviationPercent: pos.DefaultPriceDeviationPercent,
		DiscountCapPercent:    pos.DefaultDiscountCapPercent,
	}
}

// OrderService owns the checkout flow: pricing every line through the
// deviation guard, capping the discount, and completing the order while
// decrementing stock in the same unit of work.
type OrderService struct {
	txScope      TransactionScope
	orderRepo    pos.OrderRepository
	stockService *appinv.StockService
	policy       PricingPolicy
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo pos.OrderRepository,
	stockService *appinv.StockService,
	policy PricingPolicy,
) *OrderService {
	return &OrderService{
		txScope:      txScope,
		orderRepo:    orderRepo,
		stockService: stockService,
		policy:       policy,
	}
}

// PriceLine prices one line without persisting anything. Used by the
// terminal to preview a price before the sale is committed.
func (s *OrderService) PriceLine(actor shared.Actor, catalogPrice, requestedPrice decimal.Decimal) (*pos.LinePrice, error) {
	priced, err := pos.PriceOrderLine(
		valueobject.NewMoneyUSD(catalogPrice),
		valueobject.NewMoneyUSD(requestedPrice),
		actor.Role,
		s.policy.PriceDeviationPercent,
	)
	if err != nil {
		return nil, err
	}
	return &priced, nil
}

// CreateOrder runs a complete checkout atomically: the order with its priced
// lines, the discount and tax totals, and one stock decrement per line. A
// guardrail rejection on any line or on the stock rolls back the whole sale.
func (s *OrderService) CreateOrder(ctx context.Context, actor shared.Actor, req CreateOrderRequest) (*OrderResponse, error) {
	if !actor.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor identity is required")
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order must have at least one line")
	}

	order, err := pos.NewOrder(req.OrderNumber, req.CustomerID, actor)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		err := order.AddLine(
			line.ProductID, line.Quantity,
			valueobject.NewMoneyUSD(line.CatalogPrice),
			valueobject.NewMoneyUSD(line.RequestedUnitPrice),
			actor.Role, s.policy.PriceDeviationPercent,
		)
		if err != nil {
			return nil, err
		}
	}

	if !req.DiscountPercent.IsZero() {
		if err := order.ApplyDiscount(req.DiscountPercent, s.policy.DiscountCapPercent); err != nil {
			return nil, err
		}
	}
	if !req.TaxPercent.IsZero() {
		if err := order.SetTaxPercent(req.TaxPercent); err != nil {
			return nil, err
		}
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if existing, err := repos.OrderRepo().FindByNumber(ctx, req.OrderNumber); err == nil && existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Order number already in use")
		} else if err != nil && !shared.IsNotFound(err) {
			return err
		}

		// Each line decrements its location through the inventory inner
		// entry point, inside this same transaction. The sufficiency guard
		// runs against the locked level row.
		for _, line := range req.Lines {
			_, err := s.stockService.AdjustStockInTx(ctx, repos.Inventory(), actor, appinv.AdjustStockRequest{
				ProductID:   line.ProductID,
				WarehouseID: req.WarehouseID,
				LocationID:  line.LocationID,
				Quantity:    line.Quantity.Neg(),
				ReferenceID: orderReference(order.ID),
				Notes:       fmt.Sprintf("sale %s", req.OrderNumber),
			})
			if err != nil {
				return err
			}
		}

		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrderByNumber retrieves an order by its human-readable number
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// orderReference is the movement journal reference for a sale
func orderReference(orderID uuid.UUID) string {
	return "pos-order:" + orderID.String()
}
