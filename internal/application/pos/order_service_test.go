package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appinv "github.com/nexerp/backend/internal/application/inventory"
	"github.com/nexerp/backend/internal/domain/inventory"
	"github.com/nexerp/backend/internal/domain/pos"
	"github.com/nexerp/backend/internal/domain/shared"
)

// MockOrderRepository is a mock implementation of pos.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *pos.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*pos.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *pos.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// In-memory inventory fakes. The sale flow exercises real level and journal
// behavior without a database.

type fakeLevelRepo struct {
	levels map[string]*inventory.StockLevel
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: make(map[string]*inventory.StockLevel)}
}

func levelKey(productID, locationID uuid.UUID) string {
	return productID.String() + "/" + locationID.String()
}

func (r *fakeLevelRepo) seed(t *testing.T, productID, locationID uuid.UUID, quantity string) {
	level, err := inventory.NewStockLevel(productID, locationID)
	require.NoError(t, err)
	level.Quantity = decimal.RequireFromString(quantity)
	r.levels[levelKey(productID, locationID)] = level
}

func (r *fakeLevelRepo) FindByProductAndLocation(_ context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	level, ok := r.levels[levelKey(productID, locationID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return level, nil
}

func (r *fakeLevelRepo) FindByProductAndLocationForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	return r.FindByProductAndLocation(ctx, productID, locationID)
}

func (r *fakeLevelRepo) GetOrCreateForUpdate(_ context.Context, productID, locationID uuid.UUID) (*inventory.StockLevel, error) {
	key := levelKey(productID, locationID)
	if level, ok := r.levels[key]; ok {
		return level, nil
	}
	level, err := inventory.NewStockLevel(productID, locationID)
	if err != nil {
		return nil, err
	}
	r.levels[key] = level
	return level, nil
}

func (r *fakeLevelRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.StockLevel, error) {
	var result []inventory.StockLevel
	for _, level := range r.levels {
		if level.ProductID == productID {
			result = append(result, *level)
		}
	}
	return result, nil
}

func (r *fakeLevelRepo) Save(_ context.Context, level *inventory.StockLevel) error {
	r.levels[levelKey(level.ProductID, level.LocationID)] = level
	return nil
}

func (r *fakeLevelRepo) SumByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, level := range r.levels {
		if level.ProductID == productID {
			sum = sum.Add(level.Quantity)
		}
	}
	return sum, nil
}

type fakeMovementRepo struct {
	movements []inventory.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *inventory.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) FindByProductAndLocation(_ context.Context, productID, locationID uuid.UUID) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) FindByReference(_ context.Context, referenceID string) ([]inventory.StockMovement, error) {
	var result []inventory.StockMovement
	for _, m := range r.movements {
		if m.ReferenceID == referenceID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) SumByProductAndLocation(_ context.Context, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

type fakeProductStockRepo struct {
	totals map[uuid.UUID]*inventory.ProductStock
}

func newFakeProductStockRepo() *fakeProductStockRepo {
	return &fakeProductStockRepo{totals: make(map[uuid.UUID]*inventory.ProductStock)}
}

func (r *fakeProductStockRepo) seed(t *testing.T, productID uuid.UUID, quantity string) {
	total, err := inventory.NewProductStock(productID)
	require.NoError(t, err)
	total.Quantity = decimal.RequireFromString(quantity)
	r.totals[productID] = total
}

func (r *fakeProductStockRepo) GetOrCreateForUpdate(_ context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	if total, ok := r.totals[productID]; ok {
		return total, nil
	}
	total, err := inventory.NewProductStock(productID)
	if err != nil {
		return nil, err
	}
	r.totals[productID] = total
	return total, nil
}

func (r *fakeProductStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) (*inventory.ProductStock, error) {
	total, ok := r.totals[productID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return total, nil
}

func (r *fakeProductStockRepo) Save(_ context.Context, p *inventory.ProductStock) error {
	r.totals[p.ProductID] = p
	return nil
}

// Test fixture

type checkoutFixture struct {
	orderRepo        *MockOrderRepository
	levelRepo        *fakeLevelRepo
	movementRepo     *fakeMovementRepo
	productStockRepo *fakeProductStockRepo
	service          *OrderService
}

// seedStock seeds both the location level and the product total
func (f *checkoutFixture) seedStock(t *testing.T, productID, locationID uuid.UUID, quantity string) {
	f.levelRepo.seed(t, productID, locationID, quantity)
	f.productStockRepo.seed(t, productID, quantity)
}

func newCheckoutFixture() *checkoutFixture {
	orderRepo := new(MockOrderRepository)
	levelRepo := newFakeLevelRepo()
	movementRepo := &fakeMovementRepo{}
	productStockRepo := newFakeProductStockRepo()

	invScope := appinv.NewNoOpTransactionScope(levelRepo, movementRepo, productStockRepo)
	stockService := appinv.NewStockService(invScope, levelRepo, movementRepo)

	scope := NewNoOpTransactionScope(orderRepo, invScope)
	service := NewOrderService(scope, orderRepo, stockService, DefaultPricingPolicy())

	return &checkoutFixture{
		orderRepo:        orderRepo,
		levelRepo:        levelRepo,
		movementRepo:     movementRepo,
		productStockRepo: productStockRepo,
		service:          service,
	}
}

func cashier() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleCashier}
}

func manager() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: shared.RoleManager}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("checkout prices lines, totals, and decrements stock", func(t *testing.T) {
		f := newCheckoutFixture()
		productID := uuid.New()
		locationID := uuid.New()
		f.seedStock(t, productID, locationID, "50")

		f.orderRepo.On("FindByNumber", ctx, "POS-1").Return(nil, shared.ErrNotFound)
		f.orderRepo.On("Create", ctx, mock.AnythingOfType("*pos.Order")).Return(nil)

		resp, err := f.service.CreateOrder(ctx, cashier(), CreateOrderRequest{
			OrderNumber: "POS-1",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          productID,
				LocationID:         locationID,
				Quantity:           decimal.RequireFromString("3"),
				CatalogPrice:       decimal.RequireFromString("10.00"),
				RequestedUnitPrice: decimal.RequireFromString("10.00"),
			}},
			DiscountPercent: decimal.NewFromInt(10),
			TaxPercent:      decimal.NewFromInt(8),
		})
		require.NoError(t, err)

		assert.Equal(t, "COMPLETED", resp.Status)
		assert.True(t, resp.SubtotalAmount.Equal(decimal.RequireFromString("30")))
		assert.True(t, resp.DiscountAmount.Equal(decimal.RequireFromString("3")))
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("29.16")))

		level, err := f.levelRepo.FindByProductAndLocation(ctx, productID, locationID)
		require.NoError(t, err)
		assert.True(t, level.Quantity.Equal(decimal.RequireFromString("47")))
		require.Len(t, f.movementRepo.movements, 1)
		assert.True(t, f.movementRepo.movements[0].Quantity.Equal(decimal.RequireFromString("-3")))

		f.orderRepo.AssertExpectations(t)
	})

	t.Run("insufficient stock rejects the whole sale", func(t *testing.T) {
		f := newCheckoutFixture()
		productID := uuid.New()
		locationID := uuid.New()
		f.seedStock(t, productID, locationID, "2")

		f.orderRepo.On("FindByNumber", ctx, "POS-2").Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateOrder(ctx, cashier(), CreateOrderRequest{
			OrderNumber: "POS-2",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          productID,
				LocationID:         locationID,
				Quantity:           decimal.RequireFromString("5"),
				CatalogPrice:       decimal.RequireFromString("10.00"),
				RequestedUnitPrice: decimal.RequireFromString("10.00"),
			}},
		})
		require.Error(t, err)
		reason, ok := shared.GuardrailReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, shared.GuardrailNegativeStock, reason)

		f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("price deviation beyond threshold rejected for cashier", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.service.CreateOrder(ctx, cashier(), CreateOrderRequest{
			OrderNumber: "POS-3",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          uuid.New(),
				LocationID:         uuid.New(),
				Quantity:           decimal.NewFromInt(1),
				CatalogPrice:       decimal.RequireFromString("100.00"),
				RequestedUnitPrice: decimal.RequireFromString("75.00"),
			}},
		})
		require.Error(t, err)
		reason, ok := shared.GuardrailReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, shared.GuardrailPriceDeviation, reason)
	})

	t.Run("manager override prices the same line", func(t *testing.T) {
		f := newCheckoutFixture()
		productID := uuid.New()
		locationID := uuid.New()
		f.seedStock(t, productID, locationID, "10")

		f.orderRepo.On("FindByNumber", ctx, "POS-4").Return(nil, shared.ErrNotFound)
		f.orderRepo.On("Create", ctx, mock.AnythingOfType("*pos.Order")).Return(nil)

		resp, err := f.service.CreateOrder(ctx, manager(), CreateOrderRequest{
			OrderNumber: "POS-4",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          productID,
				LocationID:         locationID,
				Quantity:           decimal.NewFromInt(1),
				CatalogPrice:       decimal.RequireFromString("100.00"),
				RequestedUnitPrice: decimal.RequireFromString("75.00"),
			}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.True(t, resp.Lines[0].OverrideApplied)
	})

	t.Run("discount above cap rejected for every role", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.service.CreateOrder(ctx, manager(), CreateOrderRequest{
			OrderNumber: "POS-5",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          uuid.New(),
				LocationID:         uuid.New(),
				Quantity:           decimal.NewFromInt(1),
				CatalogPrice:       decimal.RequireFromString("100.00"),
				RequestedUnitPrice: decimal.RequireFromString("100.00"),
			}},
			DiscountPercent: decimal.NewFromInt(20),
		})
		require.Error(t, err)
		reason, ok := shared.GuardrailReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, shared.GuardrailDiscountCap, reason)
	})

	t.Run("duplicate order number rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		productID := uuid.New()
		locationID := uuid.New()
		f.seedStock(t, productID, locationID, "10")

		existing, err := pos.NewOrder("POS-6", nil, manager())
		require.NoError(t, err)
		f.orderRepo.On("FindByNumber", ctx, "POS-6").Return(existing, nil)

		_, err = f.service.CreateOrder(ctx, cashier(), CreateOrderRequest{
			OrderNumber: "POS-6",
			WarehouseID: warehouseID,
			Lines: []OrderLineRequest{{
				ProductID:          productID,
				LocationID:         locationID,
				Quantity:           decimal.NewFromInt(1),
				CatalogPrice:       decimal.RequireFromString("10.00"),
				RequestedUnitPrice: decimal.RequireFromString("10.00"),
			}},
		})
		assert.Error(t, err)
	})
}

func TestOrderService_PriceLine(t *testing.T) {
	f := newCheckoutFixture()

	t.Run("previews a priced line", func(t *testing.T) {
		priced, err := f.service.PriceLine(cashier(), decimal.RequireFromString("100"), decimal.RequireFromString("85"))
		require.NoError(t, err)
		assert.False(t, priced.OverrideApplied)
		assert.True(t, priced.UnitPrice.Amount().Equal(decimal.RequireFromString("85")))
	})

	t.Run("rejects deviation for unauthorized role", func(t *testing.T) {
		_, err := f.service.PriceLine(cashier(), decimal.RequireFromString("100"), decimal.RequireFromString("70"))
		require.Error(t, err)
		assert.True(t, shared.IsGuardrailViolation(err))
	})
}
