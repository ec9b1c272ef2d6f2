package commands

import (
	"context"

	"clickboucher/internal/core/domain/model/order"
)

// RateOrderCommandHandler records the rating, completes the order and folds
// the score into the shop's rating counters in the same transaction.
type RateOrderCommandHandler struct {
	uowFactory UoWFactory
	effects    *Effects
}

// NewRateOrderCommandHandler creates the rating handler.
func NewRateOrderCommandHandler(uowFactory UoWFactory, effects *Effects) RateOrderCommandHandler {
	return RateOrderCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the rating and returns the completed order.
func (h *RateOrderCommandHandler) Handle(ctx context.Context, cmd RateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Rate(cmd.Score(), cmd.Comment(), cmd.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.ShopRepository().AddRating(ctx, o.ShopID(), cmd.Score()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.effects.OrderChanged(ctx, o, cmd.Now())
	return o, nil
}
