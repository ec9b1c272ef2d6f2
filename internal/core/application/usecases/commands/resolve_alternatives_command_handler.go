package commands

import (
	"context"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/core/ports"
)

// ResolveAlternativesCommandHandler applies the customer's stock decisions.
// Replacement products are resolved against the shop's catalog; the stock
// reconciler enforces the all-or-nothing decision contract.
type ResolveAlternativesCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.CatalogRepository
	stock      services.StockReconciler
	effects    *Effects
}

// NewResolveAlternativesCommandHandler creates the resolution handler.
func NewResolveAlternativesCommandHandler(uowFactory OrderUoWFactory,
	catalog ports.CatalogRepository, stock services.StockReconciler, effects *Effects,
) ResolveAlternativesCommandHandler {
	return ResolveAlternativesCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		stock:      stock,
		effects:    effects,
	}
}

// Handle processes the resolution and returns the updated order, now either
// Accepted or Cancelled.
func (h *ResolveAlternativesCommandHandler) Handle(ctx context.Context, cmd ResolveAlternativesCommand) (*order.Order, error) {
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

	catalog, err := h.catalog.GetProducts(ctx, o.ShopID())
	if err != nil {
		return nil, err
	}

	if err = h.stock.ApplyDecisions(o, cmd.Decisions(), catalog, cmd.Now()); err != nil {
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
	} else {
		h.effects.Notify(ctx, o, ports.EventOrderAccepted, nil)
	}
	return o, nil
}
