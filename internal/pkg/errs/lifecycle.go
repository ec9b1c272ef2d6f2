package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the order-lifecycle error classes.
var (
	ErrStateConflict      = errors.New("state conflict")
	ErrAdmissionRejected  = errors.New("admission rejected")
	ErrIncompleteDecision = errors.New("incomplete decision")
)

// StateConflictError indicates that a requested action is not valid for the
// order's current status, or that the caller lost a race against a concurrent
// transition. It is returned as-is to the caller; no automatic retry.
type StateConflictError struct {
	Action string
	Status string
	Cause  error
}

// NewStateConflictError creates a StateConflictError for an action attempted
// from an incompatible status.
func NewStateConflictError(action, status string) *StateConflictError {
	return &StateConflictError{Action: action, Status: status}
}

// NewStateConflictErrorWithCause creates a StateConflictError wrapping an
// underlying cause, typically a lost optimistic-lock update.
func NewStateConflictErrorWithCause(action, status string, cause error) *StateConflictError {
	return &StateConflictError{Action: action, Status: status, Cause: cause}
}

func (e *StateConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s is not allowed from %s (cause: %s)",
			ErrStateConflict, e.Action, e.Status, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s is not allowed from %s", ErrStateConflict, e.Action, e.Status))
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// AdmissionRejectedError indicates that the shop cannot accept a new order
// right now. Reason carries a stable machine-readable code.
type AdmissionRejectedError struct {
	ShopID string
	Reason string
}

// NewAdmissionRejectedError creates an AdmissionRejectedError with the given
// reason code (closed, vacation, paused, capacity).
func NewAdmissionRejectedError(shopID, reason string) *AdmissionRejectedError {
	return &AdmissionRejectedError{ShopID: shopID, Reason: reason}
}

func (e *AdmissionRejectedError) Error() string {
	return sanitize(fmt.Sprintf("%s: shop %s is not accepting orders (%s)",
		ErrAdmissionRejected, e.ShopID, e.Reason))
}

func (e *AdmissionRejectedError) Unwrap() error {
	return ErrAdmissionRejected
}

// IncompleteDecisionError indicates that a stock resolution request did not
// cover every flagged item. Decisions are all-or-nothing per call.
type IncompleteDecisionError struct {
	MissingItemIDs []string
}

// NewIncompleteDecisionError creates an IncompleteDecisionError listing the
// flagged items that received no decision.
func NewIncompleteDecisionError(missingItemIDs []string) *IncompleteDecisionError {
	return &IncompleteDecisionError{MissingItemIDs: missingItemIDs}
}

func (e *IncompleteDecisionError) Error() string {
	return sanitize(fmt.Sprintf("%s: no decision for items: %s",
		ErrIncompleteDecision, strings.Join(e.MissingItemIDs, ", ")))
}

func (e *IncompleteDecisionError) Unwrap() error {
	return ErrIncompleteDecision
}
