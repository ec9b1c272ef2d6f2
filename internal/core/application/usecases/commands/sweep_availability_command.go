package commands

import (
	"errors"
	"time"

	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrSweepAvailabilityCommandIsNotConstructed is returned when the command
// was not created through its constructor.
var ErrSweepAvailabilityCommandIsNotConstructed = errors.New(
	"SweepAvailabilityCommand must be created via NewSweepAvailabilityCommand constructor",
)

// SweepAvailabilityCommand triggers one eager resolution pass over shops in
// timed states. Reads already resolve expired windows lazily; the sweep
// persists the resolution so the stored state matches what everyone sees.
type SweepAvailabilityCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewSweepAvailabilityCommand creates the sweep command.
func NewSweepAvailabilityCommand(now time.Time) (SweepAvailabilityCommand, error) {
	if now.IsZero() {
		return SweepAvailabilityCommand{}, errs.NewValueIsRequiredError("now")
	}
	return SweepAvailabilityCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSweepAvailabilityCommandIsNotConstructed)
}

// Now returns the sweep reference time.
func (c SweepAvailabilityCommand) Now() time.Time { return c.now }
