package ports

import (
	"context"

	"clickboucher/internal/core/domain/model/kernel"
)

// EventKind names a customer-facing notification moment.
type EventKind string

const (
	EventOrderAccepted  EventKind = "order_accepted"
	EventOrderReady     EventKind = "order_ready"
	EventWeightReview   EventKind = "weight_review"
	EventStockIssue     EventKind = "stock_issue"
	EventOrderCancelled EventKind = "order_cancelled"
)

// Notifier delivers customer notifications for lifecycle moments. Delivery
// is best-effort and runs after the transition committed: a failed
// notification is logged and counted, never rolled back into the order.
type Notifier interface {
	Notify(ctx context.Context, orderID kernel.UUID, kind EventKind, params map[string]string) error
}
