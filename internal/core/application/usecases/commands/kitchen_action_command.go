package commands

import (
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrKitchenActionCommandIsNotConstructed is returned when the command was
// not created through its constructor.
var ErrKitchenActionCommandIsNotConstructed = errors.New(
	"KitchenActionCommand must be created via NewKitchenActionCommand constructor",
)

// KitchenAction names a lifecycle action arriving on the actions endpoint.
type KitchenAction string

const (
	ActionAccept          KitchenAction = "accept"
	ActionDeny            KitchenAction = "deny"
	ActionStartPreparing  KitchenAction = "start_preparing"
	ActionMarkReady       KitchenAction = "mark_ready"
	ActionConfirmPickup   KitchenAction = "confirm_pickup"
	ActionManualPickup    KitchenAction = "manual_pickup"
	ActionAddTime         KitchenAction = "add_time"
	ActionItemUnavailable KitchenAction = "item_unavailable"
	ActionCancel          KitchenAction = "cancel"
)

// Validate rejects unknown actions.
func (a KitchenAction) Validate() error {
	switch a {
	case ActionAccept, ActionDeny, ActionStartPreparing, ActionMarkReady,
		ActionConfirmPickup, ActionManualPickup, ActionAddTime,
		ActionItemUnavailable, ActionCancel:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("action",
			fmt.Errorf("%q is not a known action", string(a)))
	}
}

// KitchenActionCommand represents one lifecycle action on an order. The
// payload fields are action-specific: minutes for accept and add_time, a
// reason for deny, item ids for item_unavailable, the presented token for
// confirm_pickup. Action-level guards live in the aggregate; the command
// only checks that the payload its action needs is present.
type KitchenActionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	action  KitchenAction

	minutes       int
	reason        string
	itemIDs       []kernel.UUID
	presentedCode string

	now time.Time

	guard guard.ConstructorGuard
}

// NewKitchenActionCommand creates the action command.
func NewKitchenActionCommand(orderID kernel.UUID, action KitchenAction,
	minutes int, reason string, itemIDs []kernel.UUID, presentedCode string, now time.Time,
) (KitchenActionCommand, error) {
	cmd := KitchenActionCommand{
		minutes:       minutes,
		reason:        reason,
		presentedCode: presentedCode,
		now:           now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAction(action),
		cmd.setItemIDs(itemIDs),
	); err != nil {
		return KitchenActionCommand{}, err
	}

	if err := cmd.validatePayload(); err != nil {
		return KitchenActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c KitchenActionCommand) Validate() error {
	return c.guard.Validate(ErrKitchenActionCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c KitchenActionCommand) OrderID() kernel.UUID { return c.orderID }

// Action returns the requested action.
func (c KitchenActionCommand) Action() KitchenAction { return c.action }

// Minutes returns the minutes payload for accept and add_time.
func (c KitchenActionCommand) Minutes() int { return c.minutes }

// Reason returns the deny reason.
func (c KitchenActionCommand) Reason() string { return c.reason }

// ItemIDs returns the flagged items for item_unavailable.
func (c KitchenActionCommand) ItemIDs() []kernel.UUID { return c.itemIDs }

// PresentedCode returns the pickup proof for confirm_pickup.
func (c KitchenActionCommand) PresentedCode() string { return c.presentedCode }

// Now returns when the action was requested.
func (c KitchenActionCommand) Now() time.Time { return c.now }

func (c *KitchenActionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *KitchenActionCommand) setAction(action KitchenAction) error {
	if err := action.Validate(); err != nil {
		return err
	}
	c.action = action
	return nil
}

func (c *KitchenActionCommand) setItemIDs(itemIDs []kernel.UUID) error {
	for _, id := range itemIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.itemIDs = itemIDs
	return nil
}

func (c *KitchenActionCommand) validatePayload() error {
	switch c.action {
	case ActionAccept, ActionAddTime:
		if c.minutes < 1 {
			return errs.NewValueIsRequiredError("minutes")
		}
	case ActionDeny:
		if c.reason == "" {
			return errs.NewValueIsRequiredError("reason")
		}
	case ActionItemUnavailable:
		if len(c.itemIDs) == 0 {
			return errs.NewValueIsRequiredError("itemIds")
		}
	case ActionConfirmPickup:
		if c.presentedCode == "" {
			return errs.NewValueIsRequiredError("pickupToken")
		}
	}
	return nil
}
