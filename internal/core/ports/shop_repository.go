package ports

import (
	"context"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"
)

// ShopRepository defines the persistence contract for shop availability
// aggregates and the shop-level rating counters.
type ShopRepository interface {
	// Add persists a new availability aggregate to storage.
	Add(ctx context.Context, aggregate *shop.Availability) error

	// Update persists changes to an availability aggregate, predicated on
	// the version it was loaded at. A lost race returns a
	// StateConflictError and persists nothing.
	Update(ctx context.Context, aggregate *shop.Availability) error

	// Get retrieves the availability aggregate for a shop.
	Get(ctx context.Context, shopID kernel.UUID) (*shop.Availability, error)

	// GetWithTimedState retrieves every shop currently stored in a timed
	// state (Busy, Paused, AutoPaused). The availability sweep resolves the
	// expired ones eagerly.
	GetWithTimedState(ctx context.Context) ([]*shop.Availability, error)

	// AddRating atomically folds a new score into the shop's rating
	// counters (sum and count columns, single UPDATE).
	AddRating(ctx context.Context, shopID kernel.UUID, score int) error
}
