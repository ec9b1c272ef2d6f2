package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/ports"
	"clickboucher/internal/pkg/errs"
)

// SweepStaleOrdersCommandHandler auto-cancels Pending orders that outlived
// the accept deadline. Shops that accrue repeated auto-cancellations within
// the trailing hour are put into AutoPaused so they stop collecting orders
// nobody is answering.
type SweepStaleOrdersCommandHandler struct {
	uowFactory UoWFactory
	effects    *Effects
	logger     *slog.Logger
}

// NewSweepStaleOrdersCommandHandler creates the sweep handler.
func NewSweepStaleOrdersCommandHandler(uowFactory UoWFactory, effects *Effects,
	logger *slog.Logger,
) SweepStaleOrdersCommandHandler {
	return SweepStaleOrdersCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		logger:     logger.With(slog.String("component", "stale_order_sweep")),
	}
}

// Handle runs one sweep pass. Returns how many orders were cancelled and
// how many shops were auto-paused.
func (h *SweepStaleOrdersCommandHandler) Handle(ctx context.Context, cmd SweepStaleOrdersCommand) (int, int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	shopRepo := uow.ShopRepository()

	stale, err := orderRepo.GetPendingOlderThan(ctx, cmd.Now().Add(-order.PendingTimeout))
	if err != nil {
		return 0, 0, err
	}

	cancelled := make([]*order.Order, 0, len(stale))
	touchedShops := make(map[kernel.UUID]struct{})
	for _, o := range stale {
		if err = o.AutoCancel(cmd.Now()); err != nil {
			// A concurrent accept may have won the race since the read.
			h.logger.Info("skipping order",
				slog.String("order_id", o.ID().String()),
				slog.Any("error", err))
			continue
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			if errors.Is(err, errs.ErrStateConflict) {
				// Same race, lost at the write instead of the read.
				h.logger.Info("skipping order",
					slog.String("order_id", o.ID().String()),
					slog.Any("error", err))
				continue
			}
			return 0, 0, err
		}
		cancelled = append(cancelled, o)
		touchedShops[o.ShopID()] = struct{}{}
	}

	paused := 0
	for shopID := range touchedShops {
		applied, pauseErr := h.maybeAutoPause(ctx, orderRepo, shopRepo, shopID, cmd.Now())
		if pauseErr != nil {
			return 0, 0, pauseErr
		}
		if applied {
			paused++
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, 0, err
	}

	for _, o := range cancelled {
		h.effects.AutoCancelled()
		h.effects.OrderChanged(ctx, o, cmd.Now())
		h.effects.Notify(ctx, o, ports.EventOrderCancelled, map[string]string{
			"reason": "not accepted in time",
		})
	}
	for range paused {
		h.effects.AutoPaused()
	}

	return len(cancelled), paused, nil
}

func (h *SweepStaleOrdersCommandHandler) maybeAutoPause(ctx context.Context,
	orderRepo ports.OrderRepository, shopRepo ports.ShopRepository,
	shopID kernel.UUID, now time.Time,
) (bool, error) {
	count, err := orderRepo.CountAutoCancelledSince(ctx, shopID, now.Add(-time.Hour))
	if err != nil {
		return false, err
	}
	if count < autoPauseThreshold {
		return false, nil
	}

	availability, err := shopRepo.Get(ctx, shopID)
	if err != nil {
		return false, err
	}
	if !availability.AutoPause(now) {
		return false, nil
	}

	if err = shopRepo.Update(ctx, availability); err != nil {
		return false, err
	}
	h.logger.Warn("shop auto-paused after repeated unanswered orders",
		slog.String("shop_id", shopID.String()),
		slog.Int("auto_cancelled_last_hour", count))
	return true, nil
}
