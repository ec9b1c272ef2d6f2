package offerrepo

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"
	"clickboucher/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOfferRepository implements OfferRepository using GORM.
type GormOfferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOfferRepository creates a new GORM offer repository.
func NewGormOfferRepository(db *gorm.DB, tracker aggregateTracker) *GormOfferRepository {
	return &GormOfferRepository{
		db:      db,
		tracker: tracker,
	}
}

// GetReservationsHeldBefore retrieves reservations held since before the
// cutoff, oldest first. Used by the reservation sweep.
func (r *GormOfferRepository) GetReservationsHeldBefore(ctx context.Context, cutoff time.Time) ([]*shop.Reservation, error) {
	var dtos []ReservationDTO
	err := r.db.WithContext(ctx).
		Where("held_at < ?", cutoff).
		Order("held_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	reservations := make([]*shop.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		reservation, toErr := reservationToDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		reservations = append(reservations, reservation)
	}

	return reservations, nil
}

// Release deletes the reservation and returns its quantity to the offer's
// sellable pool. Deleting first makes a double release a no-op.
func (r *GormOfferRepository) Release(ctx context.Context, reservation *shop.Reservation) error {
	if err := reservation.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Where("id = ?", reservation.ID().Bytes()).
		Delete(&ReservationDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("reservation", reservation.ID().String())
	}

	err := r.db.WithContext(ctx).Model(&OfferDTO{}).
		Where("id = ?", reservation.OfferID().Bytes()).
		UpdateColumn("reserved_in_cart",
			gorm.Expr("GREATEST(reserved_in_cart - ?, 0)", reservation.Quantity())).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(reservation.ID(), reservation)
	return nil
}
