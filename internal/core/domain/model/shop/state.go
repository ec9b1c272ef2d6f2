package shop

import (
	"fmt"

	"clickboucher/internal/pkg/errs"
)

// State is the shop's availability state. Open, Busy and the timed states
// drive the admission gate: new orders are only admitted while the effective
// state is Open or Busy.
//
// Busy and Paused carry an expiry and resolve back to Open once it passes;
// AutoPaused is the sweep-applied variant of Paused. Closed and Vacation are
// explicit and only leave by an explicit action.
type State int

const (
	// StateUnknown is the invalid zero value.
	StateUnknown State = iota

	// StateOpen admits orders with the base preparation time.
	StateOpen

	// StateBusy admits orders but adds extra minutes to the quoted
	// preparation time, until busyUntil passes.
	StateBusy

	// StatePaused rejects new orders until pauseEndsAt passes. Open orders
	// continue normally.
	StatePaused

	// StateAutoPaused is a Paused applied by the stale-order sweep after
	// repeated auto-cancellations.
	StateAutoPaused

	// StateClosed rejects new orders until the shop explicitly reopens.
	StateClosed

	// StateVacation rejects new orders until the vacation is explicitly
	// ended, optionally carrying a message for customers.
	StateVacation
)

func getStateStrings() map[State]string {
	return map[State]string{
		StateUnknown:    "Unknown",
		StateOpen:       "Open",
		StateBusy:       "Busy",
		StatePaused:     "Paused",
		StateAutoPaused: "AutoPaused",
		StateClosed:     "Closed",
		StateVacation:   "Vacation",
	}
}

// String returns the human-readable name of the state. Implements
// fmt.Stringer.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate checks that the State is a known member of the enum.
func (s State) Validate() error {
	if s <= StateUnknown || s > StateVacation {
		return errs.NewValueIsInvalidErrorWithCause("state",
			fmt.Errorf("%d is not a valid shop state", s))
	}
	return nil
}

// IsAdmitting reports whether new orders may be admitted in this state.
func (s State) IsAdmitting() bool {
	return s == StateOpen || s == StateBusy
}

// AdmissionRejectReason returns the stable machine-readable code used when
// this state blocks admission.
func (s State) AdmissionRejectReason() string {
	switch s {
	case StatePaused, StateAutoPaused:
		return "paused"
	case StateClosed:
		return "closed"
	case StateVacation:
		return "vacation"
	default:
		return ""
	}
}
