package queries

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"
	"clickboucher/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShopAvailabilityQueryHandler loads one shop's availability row and
// resolves it into the customer-facing snapshot. Timer resolution reuses the
// aggregate so the read side cannot drift from the admission gate.
//
// Example:
//
//	handler := NewGetShopAvailabilityQueryHandler(db)
//	query, _ := NewGetShopAvailabilityQuery(shopID, time.Now())
//
//	snapshot, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to load shop availability: %v", err)
//	    return err
//	}
type GetShopAvailabilityQueryHandler struct {
	db *gorm.DB
}

// NewGetShopAvailabilityQueryHandler creates a handler for availability
// snapshot queries. Requires a GORM database connection for query execution.
func NewGetShopAvailabilityQueryHandler(db *gorm.DB) GetShopAvailabilityQueryHandler {
	return GetShopAvailabilityQueryHandler{db: db}
}

// Handle executes the snapshot query. Countdowns are relative to the query's
// reference time; an expired timed state reads as Open even before the sweep
// persists the transition.
func (h GetShopAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetShopAvailabilityQuery,
) (GetShopAvailabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShopAvailabilityQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			shop_id,
			state,
			busy_extra_minutes,
			busy_until,
			pause_reason,
			pause_ends_at,
			vacation_until,
			vacation_message,
			max_orders_per_hour,
			base_prep_minutes,
			rating_sum,
			rating_count,
			version
		FROM shop_availability
		WHERE shop_id = ?
	`, query.ShopID().Bytes()).Rows()
	if err != nil {
		return GetShopAvailabilityQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetShopAvailabilityQueryResponse{}, err
		}
		return GetShopAvailabilityQueryResponse{},
			errs.NewObjectNotFoundError("shop availability", query.ShopID())
	}

	var id uuid.UUID
	var params shop.RestoreAvailabilityParams
	var state int
	var ratingSum, ratingCount int64

	err = rows.Scan(
		&id,
		&state,
		&params.BusyExtraMinutes,
		&params.BusyUntil,
		&params.PauseReason,
		&params.PauseEndsAt,
		&params.VacationUntil,
		&params.VacationMessage,
		&params.MaxOrdersPerHour,
		&params.BasePrepMinutes,
		&ratingSum,
		&ratingCount,
		&params.Version,
	)
	if err != nil {
		return GetShopAvailabilityQueryResponse{}, err
	}

	shopID, idErr := kernel.UUIDFromBytes(id[:])
	if idErr != nil {
		return GetShopAvailabilityQueryResponse{}, idErr
	}
	params.ShopID = shopID
	params.State = shop.State(state)

	availability, err := shop.RestoreAvailability(params)
	if err != nil {
		return GetShopAvailabilityQueryResponse{}, err
	}

	return buildAvailabilitySnapshot(availability, ratingSum, ratingCount, query.Now()), nil
}

func buildAvailabilitySnapshot(
	availability *shop.Availability,
	ratingSum, ratingCount int64,
	now time.Time,
) GetShopAvailabilityQueryResponse {
	effective := availability.EffectiveState(now)

	snapshot := GetShopAvailabilityQueryResponse{
		ShopID:         availability.ShopID(),
		EffectiveState: effective.String(),
		Admitting:      effective.IsAdmitting(),
		PrepMinutes:    availability.QuotedPrepMinutes(now),
		RatingCount:    ratingCount,
	}
	if ratingCount > 0 {
		snapshot.RatingAverage = float64(ratingSum) / float64(ratingCount)
	}

	switch effective {
	case shop.StateBusy:
		if until := availability.BusyUntil(); until != nil {
			snapshot.BusyEndsInSeconds = remainingSeconds(now, *until)
		}
	case shop.StatePaused, shop.StateAutoPaused:
		snapshot.PauseReason = availability.PauseReason()
		if ends := availability.PauseEndsAt(); ends != nil {
			snapshot.PauseEndsInSeconds = remainingSeconds(now, *ends)
		}
	case shop.StateVacation:
		snapshot.VacationMessage = availability.VacationMessage()
	}

	return snapshot
}

func remainingSeconds(now, until time.Time) int64 {
	remaining := until.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining / time.Second)
}
