package ports

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/shop"
)

// OfferRepository defines the persistence contract for cart reservations on
// offers. The reserved counter on the offer row is only ever changed by
// atomic column updates.
type OfferRepository interface {
	// GetReservationsHeldBefore retrieves reservations placed before the
	// cutoff.
	GetReservationsHeldBefore(ctx context.Context, cutoff time.Time) ([]*shop.Reservation, error)

	// Release deletes a reservation and decrements its offer's reserved
	// counter in the same transaction.
	Release(ctx context.Context, reservation *shop.Reservation) error
}
