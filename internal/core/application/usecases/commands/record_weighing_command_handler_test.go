package commands_test

import (
	"testing"

	"clickboucher/internal/core/application/usecases/commands"
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWeighingHandler(t *testing.T, factory commands.OrderUoWFactory,
	effects *commands.Effects,
) commands.RecordWeighingCommandHandler {
	t.Helper()
	reconciler, err := services.NewWeightReconciler(services.DefaultWeightTolerancePercent)
	require.NoError(t, err)
	return commands.NewRecordWeighingCommandHandler(factory, reconciler, effects)
}

func TestRecordWeighingCommandHandler_Handle_FreezesOnOverweight(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Accept(20, testNow))
	item := o.Items()[0]

	cmd, err := commands.NewRecordWeighingCommand(o.ID(),
		[]services.Measurement{{ItemID: item.ID(), ActualGrams: 560}}, testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, o.ID(), ports.EventWeightReview,
		map[string]string{"total": "11.20"}).Return(nil).Once()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	h := newWeighingHandler(t, factory, newEffectsWith(t, notifier, publisher))
	updated, checks, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.WeightReview, updated.Status())
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Exceeds)
	notifier.AssertExpectations(t)
}

func TestRecordWeighingCommandHandler_Handle_SilentAdjustment(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Accept(20, testNow))
	item := o.Items()[0]

	cmd, err := commands.NewRecordWeighingCommand(o.ID(),
		[]services.Measurement{{ItemID: item.ID(), ActualGrams: 520}}, testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	publisher := new(MockEventPublisher)

	h := newWeighingHandler(t, factory, newEffectsWith(t, notifier, publisher))
	updated, _, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Accepted, updated.Status())
	assert.Equal(t, kernel.Money(1040), updated.Total())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestReviewWeightCommandHandler_Handle_ApproveResumes(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Accept(20, testNow))
	item := o.Items()[0]
	require.NoError(t, o.ApplyWeighing(
		[]order.WeightAdjustment{{ItemID: item.ID(), ActualGrams: 600}}, true, testNow))

	cmd, err := commands.NewReviewWeightCommand(o.ID(), true, testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReviewWeightCommandHandler(factory, newTestEffects(t))
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Accepted, updated.Status())
}

func TestReviewWeightCommandHandler_Handle_RejectCancels(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Accept(20, testNow))
	item := o.Items()[0]
	require.NoError(t, o.ApplyWeighing(
		[]order.WeightAdjustment{{ItemID: item.ID(), ActualGrams: 600}}, true, testNow))

	cmd, err := commands.NewReviewWeightCommand(o.ID(), false, testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, o.ID(), ports.EventOrderCancelled, mock.Anything).Return(nil).Once()
	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	h := commands.NewReviewWeightCommandHandler(factory, newEffectsWith(t, notifier, publisher))
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, updated.Status())
	notifier.AssertExpectations(t)
}

func TestRateOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	shopID := kernel.NewUUID()
	o := newPendingOrder(t, shopID)
	require.NoError(t, o.Accept(20, testNow))
	require.NoError(t, o.MarkReady(testNow))
	require.NoError(t, o.ConfirmPickup(o.PickupToken(), testNow))

	cmd, err := commands.NewRateOrderCommand(o.ID(), 5, "excellent", testNow)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	shopRepo := new(MockShopRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		orderRepo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("ShopRepository").Return(shopRepo).Once(),
		shopRepo.On("AddRating", mock.Anything, shopID, 5).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRateOrderCommandHandler(factory, newTestEffects(t))
	updated, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Completed, updated.Status())
	require.NotNil(t, updated.Rating())
	assert.Equal(t, 5, updated.Rating().Score)
	shopRepo.AssertExpectations(t)
}
