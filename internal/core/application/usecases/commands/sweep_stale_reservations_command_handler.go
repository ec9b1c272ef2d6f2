package commands

import (
	"context"
	"log/slog"

	"clickboucher/internal/core/domain/model/shop"
)

// SweepStaleReservationsCommandHandler releases cart reservations held
// beyond the hold window. Each release deletes the reservation row and
// decrements the offer's reserved counter atomically, so only the expired
// hold is freed and concurrent carts keep theirs.
type SweepStaleReservationsCommandHandler struct {
	uowFactory OfferUoWFactory
	effects    *Effects
	logger     *slog.Logger
}

// NewSweepStaleReservationsCommandHandler creates the sweep handler.
func NewSweepStaleReservationsCommandHandler(uowFactory OfferUoWFactory, effects *Effects,
	logger *slog.Logger,
) SweepStaleReservationsCommandHandler {
	return SweepStaleReservationsCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		logger:     logger.With(slog.String("component", "reservation_sweep")),
	}
}

// Handle runs one sweep pass and returns how many reservations were
// released.
func (h *SweepStaleReservationsCommandHandler) Handle(ctx context.Context, cmd SweepStaleReservationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	offerRepo := uow.OfferRepository()
	stale, err := offerRepo.GetReservationsHeldBefore(ctx, cmd.Now().Add(-shop.DefaultReservationHold))
	if err != nil {
		return 0, err
	}

	for _, reservation := range stale {
		if err = offerRepo.Release(ctx, reservation); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if len(stale) > 0 {
		h.effects.ReservationsReleased(len(stale))
		h.logger.Info("released stale reservations", slog.Int("count", len(stale)))
	}
	return len(stale), nil
}
