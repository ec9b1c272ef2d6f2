package commands

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/guard"
)

// ErrReviewWeightCommandIsNotConstructed is returned when the command was
// not created through its constructor.
var ErrReviewWeightCommandIsNotConstructed = errors.New(
	"ReviewWeightCommand must be created via NewReviewWeightCommand constructor",
)

// ReviewWeightCommand carries the customer's verdict on a weighed total:
// approve resumes the frozen pipeline, reject cancels the order.
type ReviewWeightCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	approve bool
	now     time.Time

	guard guard.ConstructorGuard
}

// NewReviewWeightCommand creates the review command.
func NewReviewWeightCommand(orderID kernel.UUID, approve bool, now time.Time) (ReviewWeightCommand, error) {
	cmd := ReviewWeightCommand{
		approve: approve,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ReviewWeightCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewWeightCommand) Validate() error {
	return c.guard.Validate(ErrReviewWeightCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c ReviewWeightCommand) OrderID() kernel.UUID { return c.orderID }

// Approve reports whether the customer accepted the new total.
func (c ReviewWeightCommand) Approve() bool { return c.approve }

// Now returns when the verdict arrived.
func (c ReviewWeightCommand) Now() time.Time { return c.now }

func (c *ReviewWeightCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
