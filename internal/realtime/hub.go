// Package realtime fans order-changed events out to live subscribers. The
// kitchen display subscribes per shop over SSE; every committed transition
// shows up on the stream without polling.
package realtime

import (
	"context"
	"errors"
	"sync"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/ports"
)

// DefaultSubscriptionBuffer is the per-subscriber channel capacity. A
// subscriber that falls this far behind starts losing events; the kitchen
// board query restores the full picture on reconnect.
const DefaultSubscriptionBuffer = 64

// Hub is an in-process event bus keyed by shop. It implements
// ports.EventPublisher so command handlers publish to it like to any other
// sink. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[kernel.UUID]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[kernel.UUID]map[*Subscription]struct{}),
	}
}

// Subscription is one live listener on a shop's event stream.
type Subscription struct {
	hub    *Hub
	shopID kernel.UUID
	events chan ports.OrderChangedEvent
	once   sync.Once
}

// Events returns the subscriber's event channel. The channel closes when the
// subscription is closed.
func (s *Subscription) Events() <-chan ports.OrderChangedEvent {
	return s.events
}

// Close detaches the subscription from the hub and closes the event channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.events)
	})
}

// Subscribe attaches a listener to one shop's stream with the given buffer
// size; a non-positive size falls back to DefaultSubscriptionBuffer.
func (h *Hub) Subscribe(shopID kernel.UUID, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}

	sub := &Subscription{
		hub:    h,
		shopID: shopID,
		events: make(chan ports.OrderChangedEvent, buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[shopID] == nil {
		h.subs[shopID] = make(map[*Subscription]struct{})
	}
	h.subs[shopID][sub] = struct{}{}

	return sub
}

// SubscriberCount returns the number of live subscriptions for the shop.
func (h *Hub) SubscriberCount(shopID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[shopID])
}

// Publish delivers the event to every subscriber of the event's shop. The
// send never blocks: a subscriber with a full buffer misses the event.
func (h *Hub) Publish(_ context.Context, event ports.OrderChangedEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.ShopID] {
		select {
		case sub.events <- event:
		default:
		}
	}

	return nil
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.shopID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.shopID)
		}
	}
}

// Fanout composes several publishers into one. Every sink sees every event;
// a failing sink does not stop the others.
type Fanout struct {
	sinks []ports.EventPublisher
}

// NewFanout creates a composite publisher over the given sinks.
func NewFanout(sinks ...ports.EventPublisher) *Fanout {
	return &Fanout{sinks: sinks}
}

// Publish forwards the event to every sink and joins their errors.
func (f *Fanout) Publish(ctx context.Context, event ports.OrderChangedEvent) error {
	var errset []error
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			errset = append(errset, err)
		}
	}
	return errors.Join(errset...)
}
