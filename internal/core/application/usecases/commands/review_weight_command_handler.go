package commands

import (
	"context"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/ports"
)

// ReviewWeightCommandHandler applies the customer's weight-review verdict.
type ReviewWeightCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *Effects
}

// NewReviewWeightCommandHandler creates the review handler.
func NewReviewWeightCommandHandler(uowFactory OrderUoWFactory, effects *Effects) ReviewWeightCommandHandler {
	return ReviewWeightCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the verdict and returns the updated order.
func (h *ReviewWeightCommandHandler) Handle(ctx context.Context, cmd ReviewWeightCommand) (*order.Order, error) {
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

	if cmd.Approve() {
		err = o.ValidateNewPrice(cmd.Now())
	} else {
		err = o.RejectNewPrice(cmd.Now())
	}
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.effects.OrderChanged(ctx, o, cmd.Now())
	if o.Status() == order.Cancelled {
		h.effects.Notify(ctx, o, ports.EventOrderCancelled, nil)
	}
	return o, nil
}
