// Package shoprepo persists the shop availability gate. One row per shop
// carries the state machine plus the rating counters fed by completed orders.
package shoprepo

import (
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"

	"github.com/google/uuid"
)

// AvailabilityDTO represents the database structure for the availability
// gate. RatingSum and RatingCount are maintained by atomic counter updates
// and never flow through the aggregate.
type AvailabilityDTO struct {
	ShopID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	State            int       `gorm:"index"`
	BusyExtraMinutes int
	BusyUntil        *time.Time
	PauseReason      string
	PauseEndsAt      *time.Time
	VacationUntil    *time.Time
	VacationMessage  string
	MaxOrdersPerHour int
	BasePrepMinutes  int
	RatingSum        int64
	RatingCount      int64
	Version          int64
}

// TableName specifies the database table name for availability rows.
func (AvailabilityDTO) TableName() string {
	return "shop_availability"
}

// fromDomain converts an availability aggregate to its database
// representation. Rating counters are zero here; writers must not overwrite
// the stored values.
func fromDomain(aggregate *shop.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		ShopID:           aggregate.ShopID().Bytes(),
		State:            int(aggregate.State()),
		BusyExtraMinutes: aggregate.BusyExtraMinutes(),
		BusyUntil:        aggregate.BusyUntil(),
		PauseReason:      aggregate.PauseReason(),
		PauseEndsAt:      aggregate.PauseEndsAt(),
		VacationUntil:    aggregate.VacationUntil(),
		VacationMessage:  aggregate.VacationMessage(),
		MaxOrdersPerHour: aggregate.MaxOrdersPerHour(),
		BasePrepMinutes:  aggregate.BasePrepMinutes(),
		Version:          aggregate.Version(),
	}
}

// toDomain converts a database row to an availability aggregate using
// RestoreAvailability.
func toDomain(dto AvailabilityDTO) (*shop.Availability, error) {
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	return shop.RestoreAvailability(shop.RestoreAvailabilityParams{
		ShopID:           shopID,
		State:            shop.State(dto.State),
		BusyExtraMinutes: dto.BusyExtraMinutes,
		BusyUntil:        dto.BusyUntil,
		PauseReason:      dto.PauseReason,
		PauseEndsAt:      dto.PauseEndsAt,
		VacationUntil:    dto.VacationUntil,
		VacationMessage:  dto.VacationMessage,
		MaxOrdersPerHour: dto.MaxOrdersPerHour,
		BasePrepMinutes:  dto.BasePrepMinutes,
		Version:          dto.Version,
	})
}
