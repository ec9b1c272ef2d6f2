package commands_test

import (
	"testing"
	"time"

	"clickboucher/internal/core/application/usecases/commands"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/model/product"
	"clickboucher/internal/core/domain/model/shop"
	"clickboucher/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubmitFixture(t *testing.T) (kernel.UUID, *product.Product, *shop.Availability, commands.SubmitOrderCommand) {
	t.Helper()
	shopID := kernel.NewUUID()
	p, err := product.NewProduct(kernel.NewUUID(), shopID, "Entrecôte", "beef",
		order.UnitWeight, 2000, true)
	require.NoError(t, err)

	availability, err := shop.NewAvailability(shopID, 10, 20)
	require.NoError(t, err)

	cmd, err := commands.NewSubmitOrderCommand(kernel.NewUUID(), shopID,
		[]commands.SubmitOrderLine{{ProductID: p.ID(), Quantity: 500}},
		order.NewAsapPickup(), order.PaymentOnPickup, "thin slices please", testNow)
	require.NoError(t, err)

	return shopID, p, availability, cmd
}

func TestSubmitOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	shopID, p, availability, cmd := newSubmitFixture(t)

	catalog := new(MockCatalogRepository)
	catalog.On("GetProduct", ctx, p.ID()).Return(p, nil).Once()

	orderRepo := new(MockOrderRepository)
	shopRepo := new(MockShopRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShopRepository").Return(shopRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		shopRepo.On("Get", ctx, shopID).Return(availability, nil).Once(),
		orderRepo.On("NextOrderNumber", ctx, shopID).Return(int64(42), nil).Once(),
		orderRepo.On("CountAdmittedSince", ctx, shopID, testNow.Add(-time.Hour)).Return(3, nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory, catalog, new(MockPaymentGateway), newTestEffects(t))
	created, prepMinutes, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, int64(42), created.Number())
	assert.Equal(t, kernel.Money(1000), created.Total())
	assert.Equal(t, 20, prepMinutes)
	orderRepo.AssertExpectations(t)
	shopRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_AuthorizesOnlinePayment(t *testing.T) {
	ctx := t.Context()
	shopID, p, availability, _ := newSubmitFixture(t)
	cmd, err := commands.NewSubmitOrderCommand(kernel.NewUUID(), shopID,
		[]commands.SubmitOrderLine{{ProductID: p.ID(), Quantity: 500}},
		order.NewAsapPickup(), order.PaymentTwint, "", testNow)
	require.NoError(t, err)

	catalog := new(MockCatalogRepository)
	catalog.On("GetProduct", ctx, p.ID()).Return(p, nil).Once()

	payments := new(MockPaymentGateway)
	payments.On("Authorize", mock.Anything, cmd.OrderID(), order.PaymentTwint, kernel.Money(1000)).
		Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	shopRepo := new(MockShopRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShopRepository").Return(shopRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		shopRepo.On("Get", ctx, shopID).Return(availability, nil).Once(),
		orderRepo.On("NextOrderNumber", ctx, shopID).Return(int64(7), nil).Once(),
		orderRepo.On("CountAdmittedSince", ctx, shopID, mock.Anything).Return(0, nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory, catalog, payments, newTestEffects(t))
	_, _, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	payments.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_RejectedWhenPaused(t *testing.T) {
	ctx := t.Context()
	shopID, p, availability, cmd := newSubmitFixture(t)
	require.NoError(t, availability.Pause("deliveries", 30, testNow))

	catalog := new(MockCatalogRepository)
	catalog.On("GetProduct", ctx, p.ID()).Return(p, nil).Once()

	orderRepo := new(MockOrderRepository)
	shopRepo := new(MockShopRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShopRepository").Return(shopRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		shopRepo.On("Get", ctx, shopID).Return(availability, nil).Once(),
		orderRepo.On("NextOrderNumber", ctx, shopID).Return(int64(5), nil).Once(),
		orderRepo.On("CountAdmittedSince", ctx, shopID, mock.Anything).Return(0, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory, catalog, new(MockPaymentGateway), newTestEffects(t))
	created, _, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAdmissionRejected)
	assert.Nil(t, created)
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_RejectedAtCapacity(t *testing.T) {
	ctx := t.Context()
	shopID, p, availability, cmd := newSubmitFixture(t)

	catalog := new(MockCatalogRepository)
	catalog.On("GetProduct", ctx, p.ID()).Return(p, nil).Once()

	orderRepo := new(MockOrderRepository)
	shopRepo := new(MockShopRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ShopRepository").Return(shopRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		shopRepo.On("Get", ctx, shopID).Return(availability, nil).Once(),
		// The counter allocation must precede the capacity count: its row
		// lock is what serializes two submissions racing for the last slot.
		orderRepo.On("NextOrderNumber", ctx, shopID).Return(int64(11), nil).Once(),
		orderRepo.On("CountAdmittedSince", ctx, shopID, mock.Anything).Return(10, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory, catalog, new(MockPaymentGateway), newTestEffects(t))
	_, _, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAdmissionRejected)
	assert.Contains(t, err.Error(), "capacity")
	orderRepo.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSubmitOrderCommandHandler_Handle_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	_, p, _, cmd := newSubmitFixture(t)

	catalog := new(MockCatalogRepository)
	catalog.On("GetProduct", ctx, p.ID()).
		Return(nil, errs.NewObjectNotFoundError("productId", p.ID().String())).Once()

	factory := new(MockUoWFactory)
	h := commands.NewSubmitOrderCommandHandler(factory, catalog, new(MockPaymentGateway), newTestEffects(t))
	_, _, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	factory.AssertNotCalled(t, "Create")
}

func TestSubmitOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewSubmitOrderCommandHandler(new(MockUoWFactory), new(MockCatalogRepository),
		new(MockPaymentGateway), newTestEffects(t))

	_, _, err := h.Handle(t.Context(), commands.SubmitOrderCommand{})

	require.Error(t, err)
}
