package jobs

import (
	"context"
	"log/slog"
	"time"

	"clickboucher/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleOrderSweepJob periodically auto-cancels pending orders past the
// accept deadline and auto-pauses shops that keep missing them.
type StaleOrderSweepJob struct {
	handler commands.SweepStaleOrdersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewStaleOrderSweepJob creates the job around the sweep command handler.
func NewStaleOrderSweepJob(handler commands.SweepStaleOrdersCommandHandler, logger *slog.Logger) *StaleOrderSweepJob {
	return &StaleOrderSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "stale_order_sweep_job"),
	}
}

// Start begins the sweep, running once a minute.
func (j *StaleOrderSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewSweepStaleOrdersCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale order sweep command invalid", "error", err)
			return
		}

		cancelled, paused, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale order sweep failed", "error", err)
			return
		}
		if cancelled > 0 || paused > 0 {
			j.logger.InfoContext(ctx, "Stale order sweep finished",
				"cancelled", cancelled, "paused", paused)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *StaleOrderSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order sweep job stopped")
}
