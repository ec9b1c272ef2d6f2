package commands

import (
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/services"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrRecordWeighingCommandIsNotConstructed is returned when the command was
// not created through its constructor.
var ErrRecordWeighingCommandIsNotConstructed = errors.New(
	"RecordWeighingCommand must be created via NewRecordWeighingCommand constructor",
)

// RecordWeighingCommand carries the kitchen's actually weighed quantities
// for an order's weight-sold lines.
type RecordWeighingCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	measurements []services.Measurement
	now          time.Time

	guard guard.ConstructorGuard
}

// NewRecordWeighingCommand creates the weighing command.
func NewRecordWeighingCommand(orderID kernel.UUID, measurements []services.Measurement,
	now time.Time,
) (RecordWeighingCommand, error) {
	cmd := RecordWeighingCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMeasurements(measurements),
	); err != nil {
		return RecordWeighingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordWeighingCommand) Validate() error {
	return c.guard.Validate(ErrRecordWeighingCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c RecordWeighingCommand) OrderID() kernel.UUID { return c.orderID }

// Measurements returns the weighed quantities.
func (c RecordWeighingCommand) Measurements() []services.Measurement { return c.measurements }

// Now returns when the weighing was recorded.
func (c RecordWeighingCommand) Now() time.Time { return c.now }

func (c *RecordWeighingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RecordWeighingCommand) setMeasurements(measurements []services.Measurement) error {
	if len(measurements) == 0 {
		return errs.NewValueIsRequiredError("checks")
	}
	for _, m := range measurements {
		if err := m.ItemID.Validate(); err != nil {
			return err
		}
		if m.ActualGrams <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("actualGrams",
				fmt.Errorf("%d is not greater than 0", m.ActualGrams.Int64()))
		}
	}
	c.measurements = measurements
	return nil
}
