package ports

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Updates are version-guarded: an Update whose stored version no longer
// matches the aggregate's loaded version fails with a state conflict, which
// is how concurrent transitions on the same order are serialized.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, predicated on
	// the version the aggregate was loaded at. A lost race returns a
	// StateConflictError and persists nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetOpenByShop retrieves the shop's kitchen-open orders
	// (Pending, Accepted, Preparing, Ready), oldest first.
	GetOpenByShop(ctx context.Context, shopID kernel.UUID) ([]*order.Order, error)

	// GetRecentByShop retrieves the shop's orders created since the given
	// time regardless of status, newest first. Backs the kitchen history.
	GetRecentByShop(ctx context.Context, shopID kernel.UUID, since time.Time) ([]*order.Order, error)

	// GetPendingOlderThan retrieves Pending orders across all shops created
	// before the cutoff. Used by the stale-order sweep.
	GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// CountAdmittedSince counts the shop's orders created since the given
	// time. Backs the hourly admission capacity gate.
	CountAdmittedSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error)

	// CountAutoCancelledSince counts the shop's orders auto-cancelled since
	// the given time. Backs the auto-pause trigger.
	CountAutoCancelledSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error)

	// NextOrderNumber atomically allocates the next shop-scoped sequential
	// order number.
	NextOrderNumber(ctx context.Context, shopID kernel.UUID) (int64, error)
}
