package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/ports"
	"clickboucher/internal/pkg/errs"
)

// SubmitOrderCommandHandler admits new orders. Admission prices every line
// from the catalog, asks the shop's availability gate (state and hourly
// capacity), authorizes online payments and persists the order in Pending
// with its shop-scoped number, all in one transaction.
type SubmitOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.CatalogRepository
	payments   ports.PaymentGateway
	effects    *Effects
}

// NewSubmitOrderCommandHandler creates the admission handler.
func NewSubmitOrderCommandHandler(uowFactory UoWFactory, catalog ports.CatalogRepository,
	payments ports.PaymentGateway, effects *Effects,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		payments:   payments,
		effects:    effects,
	}
}

// Handle processes the admission. Returns the created order so the caller
// can render it, along with the quoted preparation minutes.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*order.Order, int, error) {
	if err := cmd.Validate(); err != nil {
		return nil, 0, err
	}

	items, err := h.priceLines(ctx, cmd)
	if err != nil {
		return nil, 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shopRepo := uow.ShopRepository()
	orderRepo := uow.OrderRepository()

	availability, err := shopRepo.Get(ctx, cmd.ShopID())
	if err != nil {
		return nil, 0, err
	}

	// The counter upsert locks the shop's counter row for the rest of the
	// transaction, so concurrent submissions serialize before the capacity
	// count. A rejected admission skips its allocated number.
	number, err := orderRepo.NextOrderNumber(ctx, cmd.ShopID())
	if err != nil {
		return nil, 0, err
	}

	admitted, err := orderRepo.CountAdmittedSince(ctx, cmd.ShopID(), cmd.Now().Add(-time.Hour))
	if err != nil {
		return nil, 0, err
	}

	if err = availability.CanAdmit(cmd.Now(), admitted); err != nil {
		h.countRejection(err)
		return nil, 0, err
	}
	prepMinutes := availability.QuotedPrepMinutes(cmd.Now())

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.ShopID(), number, items,
		cmd.Pickup(), cmd.PaymentMethod(), cmd.CustomerNote(), cmd.Now())
	if err != nil {
		return nil, 0, err
	}

	if cmd.PaymentMethod() != order.PaymentOnPickup {
		if err = h.payments.Authorize(ctx, newOrder.ID(), cmd.PaymentMethod(), newOrder.Total()); err != nil {
			return nil, 0, err
		}
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return nil, 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, 0, err
	}

	h.effects.Admitted()
	h.effects.OrderChanged(ctx, newOrder, cmd.Now())
	return newOrder, prepMinutes, nil
}

// priceLines resolves every requested line against the shop's catalog.
// Unknown products reject the order; out-of-stock products reject it so the
// customer corrects the cart instead of entering the stock-issue flow at
// admission time.
func (h *SubmitOrderCommandHandler) priceLines(ctx context.Context, cmd SubmitOrderCommand) ([]*order.OrderItem, error) {
	items := make([]*order.OrderItem, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		p, err := h.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.ShopID().IsEqual(cmd.ShopID()) {
			return nil, errs.NewObjectNotFoundError("productId", line.ProductID.String())
		}
		if !p.IsInStock() {
			return nil, errs.NewValueIsInvalidErrorWithCause("productId",
				fmt.Errorf("product %s is out of stock", line.ProductID))
		}

		item, err := order.NewOrderItem(kernel.NewUUID(), p.ID(), p.Name(), p.Unit(), line.Quantity, p.Price())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *SubmitOrderCommandHandler) countRejection(err error) {
	var rejected *errs.AdmissionRejectedError
	if errors.As(err, &rejected) {
		h.effects.AdmissionRejected(rejected.Reason)
	}
}
