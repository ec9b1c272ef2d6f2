package commands

import (
	"context"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/core/ports"
)

// RecordWeighingCommandHandler reconciles weighed quantities against the
// order. Within-tolerance adjustments commit silently; any overweight check
// freezes the order in WeightReview and notifies the customer.
type RecordWeighingCommandHandler struct {
	uowFactory OrderUoWFactory
	weights    services.WeightReconciler
	effects    *Effects
}

// NewRecordWeighingCommandHandler creates the weighing handler.
func NewRecordWeighingCommandHandler(uowFactory OrderUoWFactory,
	weights services.WeightReconciler, effects *Effects,
) RecordWeighingCommandHandler {
	return RecordWeighingCommandHandler{
		uowFactory: uowFactory,
		weights:    weights,
		effects:    effects,
	}
}

// Handle processes the weighing and returns the per-item checks alongside
// the updated order.
func (h *RecordWeighingCommandHandler) Handle(ctx context.Context, cmd RecordWeighingCommand) (*order.Order, []services.WeightCheck, error) {
	if err := cmd.Validate(); err != nil {
		return nil, nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, nil, err
	}

	statusBefore := o.Status()
	checks, err := h.weights.Reconcile(o, cmd.Measurements(), cmd.Now())
	if err != nil {
		return nil, nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if o.Status() != statusBefore {
		h.effects.OrderChanged(ctx, o, cmd.Now())
		h.effects.Notify(ctx, o, ports.EventWeightReview, map[string]string{
			"total": o.Total().String(),
		})
	}
	return o, checks, nil
}
