package jobs

import (
	"context"
	"log/slog"
	"time"

	"clickboucher/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AvailabilitySweepJob periodically persists the reopening of shops whose
// busy or pause window expired. Admission already treats expired windows as
// Open; the sweep keeps the stored rows honest.
type AvailabilitySweepJob struct {
	handler commands.SweepAvailabilityCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewAvailabilitySweepJob creates the job around the sweep command handler.
func NewAvailabilitySweepJob(handler commands.SweepAvailabilityCommandHandler, logger *slog.Logger) *AvailabilitySweepJob {
	return &AvailabilitySweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "availability_sweep_job"),
	}
}

// Start begins the sweep, running once a minute.
func (j *AvailabilitySweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewSweepAvailabilityCommand(time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Availability sweep command invalid", "error", err)
			return
		}

		resolved, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Availability sweep failed", "error", err)
			return
		}
		if resolved > 0 {
			j.logger.InfoContext(ctx, "Availability sweep finished", "resolved", resolved)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Availability sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *AvailabilitySweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Availability sweep job stopped")
}
