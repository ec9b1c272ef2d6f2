package jobs

import (
	"context"
	"log/slog"
	"time"

	"clickboucher/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReservationSweepJob periodically releases cart reservations abandoned past
// the hold window, returning the held quantity to the sellable pool.
type ReservationSweepJob struct {
	handler commands.SweepStaleReservationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReservationSweepJob creates the job around the sweep command handler.
func NewReservationSweepJob(handler commands.SweepStaleReservationsCommandHandler, logger *slog.Logger) *ReservationSweepJob {
	return &ReservationSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "reservation_sweep_job"),
	}
}

// Start begins the sweep, running every five minutes.
func (j *ReservationSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewSweepStaleReservationsCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Reservation sweep command invalid", "error", err)
			return
		}

		released, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Reservation sweep failed", "error", err)
			return
		}
		if released > 0 {
			j.logger.InfoContext(ctx, "Reservation sweep finished", "released", released)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation sweep job started (running every 5 minutes)")
	return nil
}

// Stop stops the sweep job.
func (j *ReservationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation sweep job stopped")
}
