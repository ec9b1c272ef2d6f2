package commands

import (
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrShopStatusCommandIsNotConstructed is returned when the command was not
// created through its constructor.
var ErrShopStatusCommandIsNotConstructed = errors.New(
	"ShopStatusCommand must be created via NewShopStatusCommand constructor",
)

// ShopStatusAction names an availability change requested by the shop.
type ShopStatusAction string

const (
	ShopActionPause       ShopStatusAction = "pause"
	ShopActionResume      ShopStatusAction = "resume"
	ShopActionBusy        ShopStatusAction = "busy"
	ShopActionEndBusy     ShopStatusAction = "end_busy"
	ShopActionVacation    ShopStatusAction = "vacation"
	ShopActionEndVacation ShopStatusAction = "end_vacation"
	ShopActionClose       ShopStatusAction = "close"
)

// Validate rejects unknown actions.
func (a ShopStatusAction) Validate() error {
	switch a {
	case ShopActionPause, ShopActionResume, ShopActionBusy, ShopActionEndBusy,
		ShopActionVacation, ShopActionEndVacation, ShopActionClose:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action",
			fmt.Errorf("%q is not a known shop action", string(a)))
	}
}

// ShopStatusCommand represents one availability change. Payload fields are
// action-specific: minutes and reason for pause, extra and duration minutes
// for busy, until and message for vacation.
type ShopStatusCommand struct { //nolint:recvcheck //using for validation
	shopID kernel.UUID
	action ShopStatusAction

	minutes      int
	extraMinutes int
	reason       string
	until        *time.Time
	message      string

	now time.Time

	guard guard.ConstructorGuard
}

// DefaultPauseMinutes is the pause window applied when the shop does not
// name one.
const DefaultPauseMinutes = 60

// NewShopStatusCommand creates the availability command. A pause without a
// duration gets the default window.
func NewShopStatusCommand(shopID kernel.UUID, action ShopStatusAction,
	minutes, extraMinutes int, reason string, until *time.Time, message string, now time.Time,
) (ShopStatusCommand, error) {
	if action == ShopActionPause && minutes < 1 {
		minutes = DefaultPauseMinutes
	}

	cmd := ShopStatusCommand{
		minutes:      minutes,
		extraMinutes: extraMinutes,
		reason:       reason,
		until:        until,
		message:      message,
		now:          now,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShopID(shopID),
		cmd.setAction(action),
	); err != nil {
		return ShopStatusCommand{}, err
	}

	if err := cmd.validatePayload(); err != nil {
		return ShopStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ShopStatusCommand) Validate() error {
	return c.guard.Validate(ErrShopStatusCommandIsNotConstructed)
}

// ShopID returns the target shop.
func (c ShopStatusCommand) ShopID() kernel.UUID { return c.shopID }

// Action returns the requested availability change.
func (c ShopStatusCommand) Action() ShopStatusAction { return c.action }

// Minutes returns the window length for pause and busy.
func (c ShopStatusCommand) Minutes() int { return c.minutes }

// ExtraMinutes returns the preparation surcharge for busy.
func (c ShopStatusCommand) ExtraMinutes() int { return c.extraMinutes }

// Reason returns the pause reason.
func (c ShopStatusCommand) Reason() string { return c.reason }

// Until returns the advisory vacation end.
func (c ShopStatusCommand) Until() *time.Time { return c.until }

// Message returns the customer-facing vacation message.
func (c ShopStatusCommand) Message() string { return c.message }

// Now returns when the change was requested.
func (c ShopStatusCommand) Now() time.Time { return c.now }

func (c *ShopStatusCommand) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	c.shopID = shopID
	return nil
}

func (c *ShopStatusCommand) setAction(action ShopStatusAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	c.action = action
	return nil
}

func (c *ShopStatusCommand) validatePayload() error {
	switch c.action {
	case ShopActionBusy:
		if c.minutes < 1 {
			return errs.NewValueIsRequiredError("minutes")
		}
		if c.extraMinutes < 1 {
			return errs.NewValueIsRequiredError("extraMinutes")
		}
	}
	return nil
}
