package commands

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrSubmitOrderCommandIsNotConstructed is returned when the command was not
// created through its constructor.
var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderLine is one requested position: a product and its quantity
// (grams for weight goods, pieces for count goods).
type SubmitOrderLine struct {
	ProductID kernel.UUID
	Quantity  int64
}

// SubmitOrderCommand represents a customer's request to place an order with
// a shop. Carries the raw cart; pricing and availability are resolved by the
// handler against the shop's catalog and admission gate.
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	shopID        kernel.UUID
	lines         []SubmitOrderLine
	pickup        order.PickupTime
	paymentMethod order.PaymentMethod
	customerNote  string
	now           time.Time

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand creates the admission command. Validates identities,
// the line set, the pickup request and the payment method.
func NewSubmitOrderCommand(orderID, shopID kernel.UUID, lines []SubmitOrderLine,
	pickup order.PickupTime, paymentMethod order.PaymentMethod, customerNote string, now time.Time,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		customerNote: customerNote,
		now:          now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setShopID(shopID),
		cmd.setLines(lines),
		cmd.setPickup(pickup),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

// OrderID returns the client-supplied order identity.
func (c SubmitOrderCommand) OrderID() kernel.UUID { return c.orderID }

// ShopID returns the shop the order is placed with.
func (c SubmitOrderCommand) ShopID() kernel.UUID { return c.shopID }

// Lines returns the requested positions.
func (c SubmitOrderCommand) Lines() []SubmitOrderLine { return c.lines }

// Pickup returns the requested collection time.
func (c SubmitOrderCommand) Pickup() order.PickupTime { return c.pickup }

// PaymentMethod returns how the order will be paid.
func (c SubmitOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }

// CustomerNote returns the customer's free-text note.
func (c SubmitOrderCommand) CustomerNote() string { return c.customerNote }

// Now returns the submission time.
func (c SubmitOrderCommand) Now() time.Time { return c.now }

func (c *SubmitOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *SubmitOrderCommand) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	c.shopID = shopID
	return nil
}

func (c *SubmitOrderCommand) setLines(lines []SubmitOrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("quantity",
				errors.New("quantity must be greater than 0"))
		}
	}
	c.lines = lines
	return nil
}

func (c *SubmitOrderCommand) setPickup(pickup order.PickupTime) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}

func (c *SubmitOrderCommand) setPaymentMethod(paymentMethod order.PaymentMethod) error {
	if err := paymentMethod.Validate(); err != nil {
		return err
	}
	c.paymentMethod = paymentMethod
	return nil
}
