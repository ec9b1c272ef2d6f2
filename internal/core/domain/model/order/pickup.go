package order

import (
	"fmt"
	"time"

	"clickboucher/internal/pkg/errs"
)

// PickupTime is the requested collection time: either "as soon as possible"
// or an explicit slot window. The zero value is invalid.
type PickupTime struct {
	asap      bool
	slotStart time.Time
	slotEnd   time.Time
}

// NewAsapPickup requests collection as soon as the order is ready.
func NewAsapPickup() PickupTime {
	return PickupTime{asap: true}
}

// NewSlotPickup requests collection within an explicit slot window.
func NewSlotPickup(start, end time.Time) (PickupTime, error) {
	if start.IsZero() || end.IsZero() {
		return PickupTime{}, errs.NewValueIsRequiredError("pickupSlot")
	}
	if !end.After(start) {
		return PickupTime{}, errs.NewValueIsInvalidErrorWithCause("pickupSlot",
			fmt.Errorf("slot end %s is not after start %s", end, start))
	}
	return PickupTime{slotStart: start, slotEnd: end}, nil
}

// IsAsap reports whether collection was requested as soon as possible.
func (p PickupTime) IsAsap() bool { return p.asap }

// Slot returns the requested window; both times are zero for asap pickups.
func (p PickupTime) Slot() (start, end time.Time) {
	return p.slotStart, p.slotEnd
}

// Validate rejects the zero value (neither asap nor a slot).
func (p PickupTime) Validate() error {
	if !p.asap && p.slotStart.IsZero() {
		return errs.NewValueIsRequiredError("requestedTime")
	}
	return nil
}

// PaymentMethod identifies how the customer pays for the order.
type PaymentMethod string

const (
	// PaymentOnPickup settles at the counter when collecting.
	PaymentOnPickup PaymentMethod = "on_pickup"
	// PaymentCard settles by card online at submission.
	PaymentCard PaymentMethod = "card"
	// PaymentTwint settles by Twint online at submission.
	PaymentTwint PaymentMethod = "twint"
)

// Validate rejects unknown payment methods.
func (p PaymentMethod) Validate() error {
	switch p {
	case PaymentOnPickup, PaymentCard, PaymentTwint:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not a supported payment method", string(p)))
	}
}
