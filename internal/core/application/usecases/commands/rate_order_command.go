package commands

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrRateOrderCommandIsNotConstructed is returned when the command was not
// created through its constructor.
var ErrRateOrderCommandIsNotConstructed = errors.New(
	"RateOrderCommand must be created via NewRateOrderCommand constructor",
)

// RateOrderCommand carries the customer's rating for a picked-up order.
// Rating completes the order and folds the score into the shop's counters.
type RateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	score   int
	comment string
	now     time.Time

	guard guard.ConstructorGuard
}

// NewRateOrderCommand creates the rating command.
func NewRateOrderCommand(orderID kernel.UUID, score int, comment string, now time.Time) (RateOrderCommand, error) {
	cmd := RateOrderCommand{
		comment: comment,
		now:     now,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setScore(score),
	); err != nil {
		return RateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RateOrderCommand) Validate() error {
	return c.guard.Validate(ErrRateOrderCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c RateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Score returns the 1..5 score.
func (c RateOrderCommand) Score() int { return c.score }

// Comment returns the optional free-text comment.
func (c RateOrderCommand) Comment() string { return c.comment }

// Now returns when the rating arrived.
func (c RateOrderCommand) Now() time.Time { return c.now }

func (c *RateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RateOrderCommand) setScore(score int) error {
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}
	c.score = score
	return nil
}
