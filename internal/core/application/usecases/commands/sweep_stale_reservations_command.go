package commands

import (
	"errors"
	"time"

	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrSweepStaleReservationsCommandIsNotConstructed is returned when the
// command was not created through its constructor.
var ErrSweepStaleReservationsCommandIsNotConstructed = errors.New(
	"SweepStaleReservationsCommand must be created via NewSweepStaleReservationsCommand constructor",
)

// SweepStaleReservationsCommand triggers one pass of the cart-reservation
// sweep as of the given time.
type SweepStaleReservationsCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewSweepStaleReservationsCommand creates the sweep command.
func NewSweepStaleReservationsCommand(now time.Time) (SweepStaleReservationsCommand, error) {
	if now.IsZero() {
		return SweepStaleReservationsCommand{}, errs.NewValueIsRequiredError("now")
	}
	return SweepStaleReservationsCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStaleReservationsCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleReservationsCommandIsNotConstructed)
}

// Now returns the sweep reference time.
func (c SweepStaleReservationsCommand) Now() time.Time { return c.now }
