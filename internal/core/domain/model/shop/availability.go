package shop

import (
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// DefaultAutoPauseMinutes is how long the sweep-applied pause lasts.
const DefaultAutoPauseMinutes = 60

// ErrAvailabilityIsNotConstructed is returned when an Availability instance
// was not created through its constructors.
var ErrAvailabilityIsNotConstructed = errors.New("Availability must be created via NewAvailability or RestoreAvailability")

// Availability is the per-shop admission gate. It owns the shop's state, the
// timed Busy/Paused windows and the hourly capacity limit, and answers the
// single question the admission flow asks: may a new order enter right now,
// and with what quoted preparation time.
//
// Timed states resolve lazily: reads go through EffectiveState(now), which
// treats an expired Busy or Paused window as Open without touching storage.
// The availability sweep calls ResolveTimers to persist the same resolution
// eagerly.
type Availability struct {
	shopID kernel.UUID
	state  State

	busyExtraMinutes int
	busyUntil        *time.Time

	pauseReason string
	pauseEndsAt *time.Time

	vacationUntil   *time.Time
	vacationMessage string

	maxOrdersPerHour int
	basePrepMinutes  int

	version int64

	guard guard.ConstructorGuard
}

// NewAvailability creates the gate for a shop, starting Open.
func NewAvailability(shopID kernel.UUID, maxOrdersPerHour, basePrepMinutes int) (*Availability, error) {
	a := &Availability{
		state:   StateOpen,
		version: 1,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setShopID(shopID),
		a.setMaxOrdersPerHour(maxOrdersPerHour),
		a.setBasePrepMinutes(basePrepMinutes),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAvailabilityParams carries the persisted state needed to
// reconstruct an Availability aggregate.
type RestoreAvailabilityParams struct {
	ShopID           kernel.UUID
	State            State
	BusyExtraMinutes int
	BusyUntil        *time.Time
	PauseReason      string
	PauseEndsAt      *time.Time
	VacationUntil    *time.Time
	VacationMessage  string
	MaxOrdersPerHour int
	BasePrepMinutes  int
	Version          int64
}

// RestoreAvailability reconstructs the gate from persistence.
func RestoreAvailability(p RestoreAvailabilityParams) (*Availability, error) {
	if err := p.State.Validate(); err != nil {
		return nil, err
	}
	if p.Version <= 0 {
		return nil, errs.NewVersionIsInvalidError("availability version",
			fmt.Errorf("%d is not greater than 0", p.Version))
	}

	a := &Availability{
		state:            p.State,
		busyExtraMinutes: p.BusyExtraMinutes,
		busyUntil:        p.BusyUntil,
		pauseReason:      p.PauseReason,
		pauseEndsAt:      p.PauseEndsAt,
		vacationUntil:    p.VacationUntil,
		vacationMessage:  p.VacationMessage,
		version:          p.Version,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setShopID(p.ShopID),
		a.setMaxOrdersPerHour(p.MaxOrdersPerHour),
		a.setBasePrepMinutes(p.BasePrepMinutes),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Availability was created through a constructor.
func (a *Availability) Validate() error {
	if a == nil {
		return ErrAvailabilityIsNotConstructed
	}
	return a.guard.Validate(ErrAvailabilityIsNotConstructed)
}

// ShopID returns the shop this gate belongs to.
func (a *Availability) ShopID() kernel.UUID { return a.shopID }

// State returns the stored state without resolving expired timers. Most
// callers want EffectiveState.
func (a *Availability) State() State { return a.state }

// BusyExtraMinutes returns the extra preparation minutes while Busy.
func (a *Availability) BusyExtraMinutes() int { return a.busyExtraMinutes }

// BusyUntil returns when the Busy window ends, nil outside Busy.
func (a *Availability) BusyUntil() *time.Time { return a.busyUntil }

// PauseReason returns the reason recorded with the pause.
func (a *Availability) PauseReason() string { return a.pauseReason }

// PauseEndsAt returns when the pause window ends, nil outside Paused.
func (a *Availability) PauseEndsAt() *time.Time { return a.pauseEndsAt }

// VacationUntil returns the advisory vacation end, nil outside Vacation.
func (a *Availability) VacationUntil() *time.Time { return a.vacationUntil }

// VacationMessage returns the customer-facing vacation message.
func (a *Availability) VacationMessage() string { return a.vacationMessage }

// MaxOrdersPerHour returns the hourly admission capacity.
func (a *Availability) MaxOrdersPerHour() int { return a.maxOrdersPerHour }

// BasePrepMinutes returns the base quoted preparation time.
func (a *Availability) BasePrepMinutes() int { return a.basePrepMinutes }

// Version returns the optimistic-concurrency version this aggregate was
// loaded at.
func (a *Availability) Version() int64 { return a.version }

// EffectiveState resolves the state as of now: an expired Busy, Paused or
// AutoPaused window reads as Open. The stored state is not modified.
func (a *Availability) EffectiveState(now time.Time) State {
	switch a.state {
	case StateBusy:
		if a.busyUntil != nil && !now.Before(*a.busyUntil) {
			return StateOpen
		}
	case StatePaused, StateAutoPaused:
		if a.pauseEndsAt != nil && !now.Before(*a.pauseEndsAt) {
			return StateOpen
		}
	}
	return a.state
}

// ResolveTimers persists what EffectiveState computes: if a timed window has
// expired the stored state flips to Open. Returns whether anything changed.
func (a *Availability) ResolveTimers(now time.Time) bool {
	if a.EffectiveState(now) == a.state {
		return false
	}
	a.toOpen()
	return true
}

// CanAdmit decides whether a new order may enter. trailingHourCount is the
// number of orders admitted to this shop in the trailing 60 minutes; at or
// above MaxOrdersPerHour admission is rejected with reason "capacity".
func (a *Availability) CanAdmit(now time.Time, trailingHourCount int) error {
	effective := a.EffectiveState(now)
	if !effective.IsAdmitting() {
		return errs.NewAdmissionRejectedError(a.shopID.String(), effective.AdmissionRejectReason())
	}
	if trailingHourCount >= a.maxOrdersPerHour {
		return errs.NewAdmissionRejectedError(a.shopID.String(), "capacity")
	}
	return nil
}

// QuotedPrepMinutes returns the preparation time to quote at admission:
// the base, plus the busy surcharge while effectively Busy.
func (a *Availability) QuotedPrepMinutes(now time.Time) int {
	if a.EffectiveState(now) == StateBusy {
		return a.basePrepMinutes + a.busyExtraMinutes
	}
	return a.basePrepMinutes
}

// Pause blocks admission for the given number of minutes. Re-pausing an
// already paused shop replaces the window and reason.
func (a *Availability) Pause(reason string, minutes int, now time.Time) error {
	if minutes < 1 {
		return errs.NewValueIsOutOfRangeError("pauseMinutes", minutes, 1, 24*60)
	}

	a.toOpen()
	a.state = StatePaused
	a.pauseReason = reason
	endsAt := now.Add(time.Duration(minutes) * time.Minute)
	a.pauseEndsAt = &endsAt
	return nil
}

// Resume returns the shop to Open from any state. Idempotent.
func (a *Availability) Resume() {
	a.toOpen()
}

// EnterBusy marks the shop busy for the given window, adding extraMinutes to
// every quoted preparation time. Re-entering replaces the window.
func (a *Availability) EnterBusy(extraMinutes, durationMinutes int, now time.Time) error {
	if extraMinutes < 1 {
		return errs.NewValueIsOutOfRangeError("busyExtraMinutes", extraMinutes, 1, 24*60)
	}
	if durationMinutes < 1 {
		return errs.NewValueIsOutOfRangeError("busyDurationMinutes", durationMinutes, 1, 24*60)
	}

	a.toOpen()
	a.state = StateBusy
	a.busyExtraMinutes = extraMinutes
	until := now.Add(time.Duration(durationMinutes) * time.Minute)
	a.busyUntil = &until
	return nil
}

// ExitBusy ends the busy window early. Idempotent: a no-op outside Busy.
func (a *Availability) ExitBusy() {
	if a.state != StateBusy {
		return
	}
	a.toOpen()
}

// EnterVacation blocks admission until explicitly ended. until and message
// are advisory, shown to customers.
func (a *Availability) EnterVacation(until *time.Time, message string) {
	a.toOpen()
	a.state = StateVacation
	a.vacationUntil = until
	a.vacationMessage = message
}

// ExitVacation ends the vacation. Idempotent: a no-op outside Vacation.
func (a *Availability) ExitVacation() {
	if a.state != StateVacation {
		return
	}
	a.toOpen()
}

// Close blocks admission until the shop explicitly resumes.
func (a *Availability) Close() {
	a.toOpen()
	a.state = StateClosed
}

// AutoPause is the sweep-applied pause after repeated auto-cancellations.
// It only fires while the shop is effectively admitting, so an explicit
// pause, closure or vacation is never overridden. Returns whether it
// applied.
func (a *Availability) AutoPause(now time.Time) bool {
	if !a.EffectiveState(now).IsAdmitting() {
		return false
	}

	a.toOpen()
	a.state = StateAutoPaused
	a.pauseReason = "repeated unanswered orders"
	endsAt := now.Add(DefaultAutoPauseMinutes * time.Minute)
	a.pauseEndsAt = &endsAt
	return true
}

// toOpen resets to Open, clearing every timed window.
func (a *Availability) toOpen() {
	a.state = StateOpen
	a.busyExtraMinutes = 0
	a.busyUntil = nil
	a.pauseReason = ""
	a.pauseEndsAt = nil
	a.vacationUntil = nil
	a.vacationMessage = ""
}

func (a *Availability) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	a.shopID = shopID
	return nil
}

func (a *Availability) setMaxOrdersPerHour(limit int) error {
	if limit <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxOrdersPerHour",
			fmt.Errorf("%d is not greater than 0", limit))
	}
	a.maxOrdersPerHour = limit
	return nil
}

func (a *Availability) setBasePrepMinutes(minutes int) error {
	if minutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("basePrepMinutes",
			fmt.Errorf("%d is not greater than 0", minutes))
	}
	a.basePrepMinutes = minutes
	return nil
}
