package commands

import (
	"context"
	"log/slog"
)

// SweepAvailabilityCommandHandler flips shops whose Busy or Paused window
// has expired back to Open in storage.
type SweepAvailabilityCommandHandler struct {
	uowFactory ShopUoWFactory
	logger     *slog.Logger
}

// NewSweepAvailabilityCommandHandler creates the sweep handler.
func NewSweepAvailabilityCommandHandler(uowFactory ShopUoWFactory, logger *slog.Logger) SweepAvailabilityCommandHandler {
	return SweepAvailabilityCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With(slog.String("component", "availability_sweep")),
	}
}

// Handle runs one pass and returns how many shops were resolved to Open.
func (h *SweepAvailabilityCommandHandler) Handle(ctx context.Context, cmd SweepAvailabilityCommand) (int, error) {
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

	shopRepo := uow.ShopRepository()
	timed, err := shopRepo.GetWithTimedState(ctx)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, availability := range timed {
		if !availability.ResolveTimers(cmd.Now()) {
			continue
		}
		if err = shopRepo.Update(ctx, availability); err != nil {
			return 0, err
		}
		resolved++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if resolved > 0 {
		h.logger.Info("resolved expired availability windows", slog.Int("count", resolved))
	}
	return resolved, nil
}
