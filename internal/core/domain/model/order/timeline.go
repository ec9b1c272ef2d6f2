package order

import "time"

// TimelineEvent is one entry of an order's append-only audit log. Exactly one
// event is recorded per committed transition; entries are never mutated or
// deleted.
type TimelineEvent struct {
	Status  Status
	Message string
	At      time.Time
}
