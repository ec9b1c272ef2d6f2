package order

import (
	"fmt"

	"clickboucher/internal/pkg/errs"
)

// Status represents the lifecycle state of a click-and-collect order.
// It implements the state machine that every order walks from submission to
// a terminal state. All transition methods validate the source state and
// return the target state, so an Order can never reach a status outside the
// graph below.
//
// State transitions:
//
//	Pending ──┬──> Accepted ──> Preparing ──> Ready ──> PickedUp ──> Completed
//	          │        │            │           │
//	          │        └────────────┴───────────┴──> WeightReview ──> (back) or Cancelled
//	          ├──> PartiallyDenied ──> Accepted or Cancelled
//	          ├──> Denied
//	          ├──> Cancelled
//	          └──> AutoCancelled
//
// Completed, Denied, Cancelled and AutoCancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after admission. The shop has not
	// reacted yet; the customer may still cancel.
	Pending

	// Accepted indicates the shop committed to the order and quoted a
	// ready-time estimate. The pickup token exists from this point on.
	Accepted

	// Preparing indicates the kitchen started working on the order.
	Preparing

	// Ready indicates the order is ready for pickup.
	Ready

	// WeightReview freezes the order while the customer decides on a price
	// increase caused by overweight weighed goods.
	WeightReview

	// PartiallyDenied indicates one or more items went out of stock and the
	// customer must decide on substitutions or removals.
	PartiallyDenied

	// PickedUp indicates the customer collected the order.
	PickedUp

	// Completed is the terminal happy-path status, reached when the
	// customer rates the picked-up order.
	Completed

	// Denied is the terminal status for orders the shop refused.
	Denied

	// Cancelled is the terminal status for customer-initiated cancellation.
	Cancelled

	// AutoCancelled is the terminal status applied by the sweep when a
	// Pending order was never acted upon within the accept deadline.
	AutoCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Pending:         "Pending",
		Accepted:        "Accepted",
		Preparing:       "Preparing",
		Ready:           "Ready",
		WeightReview:    "WeightReview",
		PartiallyDenied: "PartiallyDenied",
		PickedUp:        "PickedUp",
		Completed:       "Completed",
		Denied:          "Denied",
		Cancelled:       "Cancelled",
		AutoCancelled:   "AutoCancelled",
	}
}

// String returns the human-readable name of the status, or "Unknown" for
// values outside the graph. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the Status is a node of the transition graph.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > AutoCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case Completed, Denied, Cancelled, AutoCancelled:
		return true
	default:
		return false
	}
}

// IsKitchenOpen reports whether the order belongs to the kitchen display's
// open-order set.
func (s Status) IsKitchenOpen() bool {
	switch s {
	case Pending, Accepted, Preparing, Ready:
		return true
	default:
		return false
	}
}

// IsCustomerCancellable reports whether the customer may still cancel.
// Once the shop accepted, cancellation is not exposed to the customer.
func (s Status) IsCustomerCancellable() bool {
	switch s {
	case Pending, PartiallyDenied, WeightReview:
		return true
	default:
		return false
	}
}

func (s Status) conflict(action string) error {
	return errs.NewStateConflictError(action, s.String())
}

// Accept transitions Pending -> Accepted.
func (s Status) Accept() (Status, error) {
	if s != Pending {
		return 0, s.conflict("accept")
	}
	return Accepted, nil
}

// Deny transitions Pending -> Denied.
func (s Status) Deny() (Status, error) {
	if s != Pending {
		return 0, s.conflict("deny")
	}
	return Denied, nil
}

// FlagUnavailable transitions Pending -> PartiallyDenied.
func (s Status) FlagUnavailable() (Status, error) {
	if s != Pending {
		return 0, s.conflict("item_unavailable")
	}
	return PartiallyDenied, nil
}

// CancelByCustomer transitions a customer-cancellable status -> Cancelled.
func (s Status) CancelByCustomer() (Status, error) {
	if !s.IsCustomerCancellable() {
		return 0, s.conflict("cancel")
	}
	return Cancelled, nil
}

// AutoCancel transitions Pending -> AutoCancelled. Only the sweep performs
// this transition.
func (s Status) AutoCancel() (Status, error) {
	if s != Pending {
		return 0, s.conflict("auto_cancel")
	}
	return AutoCancelled, nil
}

// Resolve transitions PartiallyDenied -> Accepted, or -> Cancelled when the
// resolved item set came out empty.
func (s Status) Resolve(empty bool) (Status, error) {
	if s != PartiallyDenied {
		return 0, s.conflict("resolve_alternatives")
	}
	if empty {
		return Cancelled, nil
	}
	return Accepted, nil
}

// StartPreparing transitions Accepted -> Preparing.
func (s Status) StartPreparing() (Status, error) {
	if s != Accepted {
		return 0, s.conflict("start_preparing")
	}
	return Preparing, nil
}

// MarkReady transitions Accepted or Preparing -> Ready.
func (s Status) MarkReady() (Status, error) {
	if s != Accepted && s != Preparing {
		return 0, s.conflict("mark_ready")
	}
	return Ready, nil
}

// ValidateAddTime checks that the ready estimate may still be extended.
func (s Status) ValidateAddTime() error {
	if s != Accepted && s != Preparing {
		return s.conflict("add_time")
	}
	return nil
}

// EnterWeightReview transitions Accepted, Preparing or Ready -> WeightReview.
func (s Status) EnterWeightReview() (Status, error) {
	if s != Accepted && s != Preparing && s != Ready {
		return 0, s.conflict("weight_review")
	}
	return WeightReview, nil
}

// ResumeFromWeightReview transitions WeightReview back to the state the order
// was frozen in.
func (s Status) ResumeFromWeightReview(prior Status) (Status, error) {
	if s != WeightReview {
		return 0, s.conflict("validate_new_price")
	}
	if prior != Accepted && prior != Preparing && prior != Ready {
		return 0, errs.NewValueIsInvalidErrorWithCause("priorStatus",
			fmt.Errorf("%s is not resumable", prior.String()))
	}
	return prior, nil
}

// RejectNewPrice transitions WeightReview -> Cancelled.
func (s Status) RejectNewPrice() (Status, error) {
	if s != WeightReview {
		return 0, s.conflict("reject_new_price")
	}
	return Cancelled, nil
}

// ConfirmPickup transitions Ready -> PickedUp.
func (s Status) ConfirmPickup() (Status, error) {
	if s != Ready {
		return 0, s.conflict("confirm_pickup")
	}
	return PickedUp, nil
}

// Complete transitions PickedUp -> Completed, performed by the rating flow.
func (s Status) Complete() (Status, error) {
	if s != PickedUp {
		return 0, s.conflict("rate")
	}
	return Completed, nil
}
