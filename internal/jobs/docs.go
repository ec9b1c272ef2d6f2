// Package jobs provides scheduled background tasks for the shop.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3 to
// handle the periodic maintenance the order lifecycle depends on.
//
// # Available Jobs
//
// 1. StaleOrderSweepJob - auto-cancels orders the shop never reacted to and
// auto-pauses the shop after repeated misses
// 2. ReservationSweepJob - releases cart reservations abandoned past the hold
// window
// 3. AvailabilitySweepJob - persists the reopening of shops whose busy or
// pause window has expired
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(staleOrdersHandler, reservationsHandler,
//		availabilityHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The stale-order and availability sweeps run every minute; one minute is the
// granularity of the accept deadline and the pause windows. The reservation
// sweep runs every five minutes, matching the much longer hold window.
package jobs
