package jobs

import (
	"fmt"
	"log/slog"

	"clickboucher/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleOrderSweepJob   *StaleOrderSweepJob
	reservationSweepJob  *ReservationSweepJob
	availabilitySweepJob *AvailabilitySweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	staleOrdersHandler commands.SweepStaleOrdersCommandHandler,
	reservationsHandler commands.SweepStaleReservationsCommandHandler,
	availabilityHandler commands.SweepAvailabilityCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		staleOrderSweepJob:   NewStaleOrderSweepJob(staleOrdersHandler, logger),
		reservationSweepJob:  NewReservationSweepJob(reservationsHandler, logger),
		availabilitySweepJob: NewAvailabilitySweepJob(availabilityHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleOrderSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale order sweep job: %w", err)
	}

	if err := jm.reservationSweepJob.Start(); err != nil {
		jm.staleOrderSweepJob.Stop()
		return fmt.Errorf("failed to start reservation sweep job: %w", err)
	}

	if err := jm.availabilitySweepJob.Start(); err != nil {
		jm.staleOrderSweepJob.Stop()
		jm.reservationSweepJob.Stop()
		return fmt.Errorf("failed to start availability sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.availabilitySweepJob.Stop()
	jm.reservationSweepJob.Stop()
	jm.staleOrderSweepJob.Stop()
}
