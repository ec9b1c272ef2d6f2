package commands

import (
	"errors"
	"time"

	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrSweepStaleOrdersCommandIsNotConstructed is returned when the command
// was not created through its constructor.
var ErrSweepStaleOrdersCommandIsNotConstructed = errors.New(
	"SweepStaleOrdersCommand must be created via NewSweepStaleOrdersCommand constructor",
)

// autoPauseThreshold is how many auto-cancellations within the trailing
// hour put a shop into AutoPaused.
const autoPauseThreshold = 2

// SweepStaleOrdersCommand triggers one pass of the stale-order sweep as of
// the given time. The sweep auto-cancels Pending orders past the accept
// deadline and auto-pauses shops that keep leaving orders unanswered.
type SweepStaleOrdersCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewSweepStaleOrdersCommand creates the sweep command.
func NewSweepStaleOrdersCommand(now time.Time) (SweepStaleOrdersCommand, error) {
	if now.IsZero() {
		return SweepStaleOrdersCommand{}, errs.NewValueIsRequiredError("now")
	}
	return SweepStaleOrdersCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStaleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleOrdersCommandIsNotConstructed)
}

// Now returns the sweep reference time.
func (c SweepStaleOrdersCommand) Now() time.Time { return c.now }
