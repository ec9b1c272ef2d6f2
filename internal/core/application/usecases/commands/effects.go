package commands

import (
	"context"
	"log/slog"
	"time"

	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/ports"
	"clickboucher/internal/pkg/metrics"
)

// Effects runs the side effects that follow a committed transition:
// customer notification and realtime event publication. Both are
// best-effort. Failures are logged and counted, never propagated, so a
// flaky notifier can not roll back or retry an already committed state
// change.
type Effects struct {
	notifier  ports.Notifier
	publisher ports.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewEffects creates the post-commit effect runner.
func NewEffects(notifier ports.Notifier, publisher ports.EventPublisher,
	m *metrics.Metrics, logger *slog.Logger,
) *Effects {
	return &Effects{
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With(slog.String("component", "effects")),
	}
}

// OrderChanged publishes the order-changed event for a just-committed
// aggregate and bumps the transition counter.
func (e *Effects) OrderChanged(ctx context.Context, o *order.Order, at time.Time) {
	e.metrics.OrderTransitions.WithLabelValues(o.Status().String()).Inc()

	if err := e.publisher.Publish(ctx, ports.NewOrderChangedEvent(o, at)); err != nil {
		e.metrics.EffectFailures.WithLabelValues("publish").Inc()
		e.logger.Warn("order change publication failed",
			slog.String("order_id", o.ID().String()),
			slog.String("status", o.Status().String()),
			slog.Any("error", err))
	}
}

// Admitted bumps the admission counter.
func (e *Effects) Admitted() {
	e.metrics.OrdersAdmitted.Inc()
}

// AdmissionRejected bumps the rejection counter for the given reason code.
func (e *Effects) AdmissionRejected(reason string) {
	e.metrics.AdmissionsRejected.WithLabelValues(reason).Inc()
}

// AutoCancelled bumps the sweep cancellation counter.
func (e *Effects) AutoCancelled() {
	e.metrics.OrdersAutoCanceled.Inc()
}

// AutoPaused bumps the sweep auto-pause counter.
func (e *Effects) AutoPaused() {
	e.metrics.ShopsAutoPaused.Inc()
}

// ReservationsReleased bumps the reservation sweep counter by n.
func (e *Effects) ReservationsReleased(n int) {
	e.metrics.ReservationsFreed.Add(float64(n))
}

// Notify delivers a customer notification for a lifecycle moment.
func (e *Effects) Notify(ctx context.Context, o *order.Order, kind ports.EventKind, params map[string]string) {
	if err := e.notifier.Notify(ctx, o.ID(), kind, params); err != nil {
		e.metrics.EffectFailures.WithLabelValues("notify").Inc()
		e.logger.Warn("customer notification failed",
			slog.String("order_id", o.ID().String()),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
	}
}
