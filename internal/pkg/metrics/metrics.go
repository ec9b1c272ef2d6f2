// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's counters. Create one per process and register
// it on a single registry; handlers and jobs share the instance.
type Metrics struct {
	OrdersAdmitted     prometheus.Counter
	AdmissionsRejected *prometheus.CounterVec
	OrderTransitions   *prometheus.CounterVec
	EffectFailures     *prometheus.CounterVec
	OrdersAutoCanceled prometheus.Counter
	ShopsAutoPaused    prometheus.Counter
	ReservationsFreed  prometheus.Counter
}

// New creates the metric set and registers it on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_admitted_total",
			Help: "Orders admitted into the lifecycle.",
		}),
		AdmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_rejected_total",
			Help: "Admissions rejected, by reason.",
		}, []string{"reason"}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Committed order transitions, by resulting status.",
		}, []string{"status"}),
		EffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "post_commit_effect_failures_total",
			Help: "Failed post-commit effects, by effect.",
		}, []string{"effect"}),
		OrdersAutoCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_auto_cancelled_total",
			Help: "Pending orders cancelled by the stale-order sweep.",
		}),
		ShopsAutoPaused: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shops_auto_paused_total",
			Help: "Shops paused by the sweep after repeated unanswered orders.",
		}),
		ReservationsFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reservations_released_total",
			Help: "Cart reservations released by the sweep.",
		}),
	}

	reg.MustRegister(
		m.OrdersAdmitted,
		m.AdmissionsRejected,
		m.OrderTransitions,
		m.EffectFailures,
		m.OrdersAutoCanceled,
		m.ShopsAutoPaused,
		m.ReservationsFreed,
	)
	return m
}
