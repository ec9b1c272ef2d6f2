package ports

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
)

// OrderChangedEvent is the realtime fan-out payload emitted after every
// committed order transition.
type OrderChangedEvent struct {
	OrderID kernel.UUID
	ShopID  kernel.UUID
	Number  int64
	Status  order.Status
	At      time.Time
}

// NewOrderChangedEvent builds the event from a just-committed aggregate.
func NewOrderChangedEvent(o *order.Order, at time.Time) OrderChangedEvent {
	return OrderChangedEvent{
		OrderID: o.ID(),
		ShopID:  o.ShopID(),
		Number:  o.Number(),
		Status:  o.Status(),
		At:      at,
	}
}

// EventPublisher pushes order-changed events to subscribers (the in-process
// hub, and the broker when configured). Publication runs after commit in
// handler order, so per-order event order follows the version guard.
// Delivery is at-least-once; a failed publish is logged and counted.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderChangedEvent) error
}
