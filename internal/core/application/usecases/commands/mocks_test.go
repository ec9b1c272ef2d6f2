package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"clickboucher/internal/core/application/usecases/commands"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/model/product"
	"clickboucher/internal/core/domain/model/shop"
	"clickboucher/internal/core/ports"
	"clickboucher/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOpenByShop(ctx context.Context, shopID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetRecentByShop(ctx context.Context, shopID kernel.UUID, since time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, shopID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountAdmittedSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, shopID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) CountAutoCancelledSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, shopID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) NextOrderNumber(ctx context.Context, shopID kernel.UUID) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

type MockShopRepository struct{ mock.Mock }

func (m *MockShopRepository) Add(ctx context.Context, a *shop.Availability) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockShopRepository) Update(ctx context.Context, a *shop.Availability) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockShopRepository) Get(ctx context.Context, shopID kernel.UUID) (*shop.Availability, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Availability), args.Error(1)
}

func (m *MockShopRepository) GetWithTimedState(ctx context.Context) ([]*shop.Availability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shop.Availability), args.Error(1)
}

func (m *MockShopRepository) AddRating(ctx context.Context, shopID kernel.UUID, score int) error {
	args := m.Called(ctx, shopID, score)
	return args.Error(0)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) GetReservationsHeldBefore(ctx context.Context, cutoff time.Time) ([]*shop.Reservation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shop.Reservation), args.Error(1)
}

func (m *MockOfferRepository) Release(ctx context.Context, r *shop.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) GetProduct(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProducts(ctx context.Context, shopID kernel.UUID) ([]*product.Product, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Authorize(ctx context.Context, orderID kernel.UUID, method order.PaymentMethod, amount kernel.Money) error {
	args := m.Called(ctx, orderID, method, amount)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, orderID kernel.UUID, kind ports.EventKind, params map[string]string) error {
	args := m.Called(ctx, orderID, kind, params)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.OrderChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ShopRepository() ports.ShopRepository {
	args := m.Called()
	return args.Get(0).(ports.ShopRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockShopUoWFactory struct{ mock.Mock }

func (m *MockShopUoWFactory) Create() commands.ShopUoW {
	args := m.Called()
	return args.Get(0).(commands.ShopUoW)
}

type MockOfferUoWFactory struct{ mock.Mock }

func (m *MockOfferUoWFactory) Create() commands.OfferUoW {
	args := m.Called()
	return args.Get(0).(commands.OfferUoW)
}

// newEffectsWith builds a real effect runner over caller-owned mocks so the
// test can assert on notifications and publications.
func newEffectsWith(t *testing.T, notifier *MockNotifier, publisher *MockEventPublisher) *commands.Effects {
	t.Helper()
	return commands.NewEffects(notifier, publisher,
		metrics.New(prometheus.NewRegistry()), slog.New(slog.DiscardHandler))
}

// newTestEffects builds a real effect runner on permissive mocks for tests
// that do not assert on effects.
func newTestEffects(t *testing.T) *commands.Effects {
	t.Helper()
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return commands.NewEffects(notifier, publisher,
		metrics.New(prometheus.NewRegistry()), slog.New(slog.DiscardHandler))
}

func newPendingOrder(t *testing.T, shopID kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewOrderItem(kernel.NewUUID(), kernel.NewUUID(), "Entrecôte",
		order.UnitWeight, 500, 2000)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), shopID, 1, []*order.OrderItem{item},
		order.NewAsapPickup(), order.PaymentOnPickup, "", testNow.Add(-2*time.Hour))
	require.NoError(t, err)
	return o
}
