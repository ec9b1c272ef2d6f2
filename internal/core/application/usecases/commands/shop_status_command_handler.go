package commands

import (
	"context"

	"clickboucher/internal/core/domain/model/shop"
)

// ShopStatusCommandHandler applies availability changes to a shop's gate.
type ShopStatusCommandHandler struct {
	uowFactory ShopUoWFactory
}

// NewShopStatusCommandHandler creates the availability handler.
func NewShopStatusCommandHandler(uowFactory ShopUoWFactory) ShopStatusCommandHandler {
	return ShopStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the change and returns the updated aggregate.
func (h *ShopStatusCommandHandler) Handle(ctx context.Context, cmd ShopStatusCommand) (*shop.Availability, error) {
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

	shopRepo := uow.ShopRepository()
	availability, err := shopRepo.Get(ctx, cmd.ShopID())
	if err != nil {
		return nil, err
	}

	if err = h.apply(availability, cmd); err != nil {
		return nil, err
	}

	if err = shopRepo.Update(ctx, availability); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return availability, nil
}

func (h *ShopStatusCommandHandler) apply(a *shop.Availability, cmd ShopStatusCommand) error {
	switch cmd.Action() {
	case ShopActionPause:
		return a.Pause(cmd.Reason(), cmd.Minutes(), cmd.Now())
	case ShopActionResume:
		a.Resume()
	case ShopActionBusy:
		return a.EnterBusy(cmd.ExtraMinutes(), cmd.Minutes(), cmd.Now())
	case ShopActionEndBusy:
		a.ExitBusy()
	case ShopActionVacation:
		a.EnterVacation(cmd.Until(), cmd.Message())
	case ShopActionEndVacation:
		a.ExitVacation()
	case ShopActionClose:
		a.Close()
	}
	return nil
}
