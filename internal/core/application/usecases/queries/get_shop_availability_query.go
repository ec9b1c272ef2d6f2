package queries

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

var (
	ErrGetShopAvailabilityQueryIsNotConstructed = errors.New(
		"GetShopAvailabilityQuery must be created via NewGetShopAvailabilityQuery constructor",
	)
)

// GetShopAvailabilityQuery retrieves the customer-facing availability
// snapshot of one shop: the effective state after expired timers are
// resolved, the quoted preparation time and the remaining countdowns.
//
// Example:
//
//	query, err := NewGetShopAvailabilityQuery(shopID, time.Now())
//	if err != nil {
//	    return err
//	}
//	handler := NewGetShopAvailabilityQueryHandler(db)
//
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load shop availability: %w", err)
//	}
//
//	fmt.Printf("%s, prep %d min\n", snapshot.EffectiveState, snapshot.PrepMinutes)
type GetShopAvailabilityQuery struct {
	shopID kernel.UUID
	now    time.Time

	guard guard.ConstructorGuard
}

// NewGetShopAvailabilityQuery creates an availability query for the given
// shop. The reference time resolves timed states and countdowns.
func NewGetShopAvailabilityQuery(shopID kernel.UUID, now time.Time) (GetShopAvailabilityQuery, error) {
	if err := shopID.Validate(); err != nil {
		return GetShopAvailabilityQuery{}, errs.NewValueIsRequiredErrorWithCause("shopID", err)
	}
	if now.IsZero() {
		return GetShopAvailabilityQuery{}, errs.NewValueIsRequiredError("now")
	}

	return GetShopAvailabilityQuery{
		shopID: shopID,
		now:    now,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// ShopID returns the shop whose availability is requested.
func (q GetShopAvailabilityQuery) ShopID() kernel.UUID { return q.shopID }

// Now returns the reference time.
func (q GetShopAvailabilityQuery) Now() time.Time { return q.now }

// Validate ensures the query was created through the constructor.
// Returns ErrGetShopAvailabilityQueryIsNotConstructed if validation fails.
func (q GetShopAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetShopAvailabilityQueryIsNotConstructed)
}

// GetShopAvailabilityQueryResponse is the availability snapshot. Countdown
// fields are zero outside their state; VacationMessage is empty outside
// Vacation.
type GetShopAvailabilityQueryResponse struct {
	ShopID             kernel.UUID
	EffectiveState     string
	Admitting          bool
	PrepMinutes        int
	BusyEndsInSeconds  int64
	PauseReason        string
	PauseEndsInSeconds int64
	VacationMessage    string
	RatingAverage      float64
	RatingCount        int64
}
