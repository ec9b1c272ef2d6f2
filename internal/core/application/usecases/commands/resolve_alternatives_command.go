package commands

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrResolveAlternativesCommandIsNotConstructed is returned when the command
// was not created through its constructor.
var ErrResolveAlternativesCommandIsNotConstructed = errors.New(
	"ResolveAlternativesCommand must be created via NewResolveAlternativesCommand constructor",
)

// ResolveAlternativesCommand carries the customer's decisions for a
// partially denied order: one remove-or-replace verdict per flagged item.
type ResolveAlternativesCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	decisions []services.Decision
	now       time.Time

	guard guard.ConstructorGuard
}

// NewResolveAlternativesCommand creates the resolution command.
func NewResolveAlternativesCommand(orderID kernel.UUID, decisions []services.Decision,
	now time.Time,
) (ResolveAlternativesCommand, error) {
	cmd := ResolveAlternativesCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDecisions(decisions),
	); err != nil {
		return ResolveAlternativesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveAlternativesCommand) Validate() error {
	return c.guard.Validate(ErrResolveAlternativesCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c ResolveAlternativesCommand) OrderID() kernel.UUID { return c.orderID }

// Decisions returns the per-item verdicts.
func (c ResolveAlternativesCommand) Decisions() []services.Decision { return c.decisions }

// Now returns when the resolution was requested.
func (c ResolveAlternativesCommand) Now() time.Time { return c.now }

func (c *ResolveAlternativesCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ResolveAlternativesCommand) setDecisions(decisions []services.Decision) error {
	if len(decisions) == 0 {
		return errs.NewValueIsRequiredError("decisions")
	}
	for _, d := range decisions {
		if err := d.ItemID.Validate(); err != nil {
			return err
		}
	}
	c.decisions = decisions
	return nil
}
