package commands

import (
	"context"
	"strconv"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/ports"
)

// KitchenActionCommandHandler applies lifecycle actions to orders. Every
// action follows the same shape: load the aggregate, apply the transition,
// persist under the version guard, commit, then run post-commit effects.
// A concurrent transition on the same order loses the version race and
// surfaces as a state conflict without a second timeline entry.
type KitchenActionCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    *Effects
}

// NewKitchenActionCommandHandler creates the action handler.
func NewKitchenActionCommandHandler(uowFactory OrderUoWFactory, effects *Effects) KitchenActionCommandHandler {
	return KitchenActionCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the action and returns the updated order.
func (h *KitchenActionCommandHandler) Handle(ctx context.Context, cmd KitchenActionCommand) (*order.Order, error) {
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

	statusBefore := o.Status()
	if err = h.apply(o, cmd); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if o.Status() != statusBefore {
		h.effects.OrderChanged(ctx, o, cmd.Now())
		h.notify(ctx, o, cmd)
	}
	return o, nil
}

func (h *KitchenActionCommandHandler) apply(o *order.Order, cmd KitchenActionCommand) error {
	switch cmd.Action() {
	case ActionAccept:
		return o.Accept(cmd.Minutes(), cmd.Now())
	case ActionDeny:
		return o.Deny(cmd.Reason(), cmd.Now())
	case ActionStartPreparing:
		return o.StartPreparing(cmd.Now())
	case ActionMarkReady:
		return o.MarkReady(cmd.Now())
	case ActionConfirmPickup:
		return o.ConfirmPickup(cmd.PresentedCode(), cmd.Now())
	case ActionManualPickup:
		return o.ManualPickup(cmd.Now())
	case ActionAddTime:
		return o.AddTime(cmd.Minutes(), cmd.Now())
	case ActionItemUnavailable:
		return o.FlagUnavailable(cmd.ItemIDs(), cmd.Now())
	case ActionCancel:
		return o.Cancel(cmd.Now())
	default:
		return cmd.Action().Validate()
	}
}

func (h *KitchenActionCommandHandler) notify(ctx context.Context, o *order.Order, cmd KitchenActionCommand) {
	switch o.Status() {
	case order.Accepted:
		h.effects.Notify(ctx, o, ports.EventOrderAccepted, map[string]string{
			"minutes": strconv.Itoa(cmd.Minutes()),
		})
	case order.Ready:
		h.effects.Notify(ctx, o, ports.EventOrderReady, nil)
	case order.PartiallyDenied:
		h.effects.Notify(ctx, o, ports.EventStockIssue, map[string]string{
			"items": strconv.Itoa(len(cmd.ItemIDs())),
		})
	case order.Denied, order.Cancelled:
		h.effects.Notify(ctx, o, ports.EventOrderCancelled, map[string]string{
			"reason": o.DenyReason(),
		})
	}
}
