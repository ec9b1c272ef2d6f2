// Package offerrepo persists sellable offers and their cart reservations.
// Releasing a stale reservation deletes the row and returns the quantity to
// the offer's sellable pool in the same statement pair.
package offerrepo

import (
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"

	"github.com/google/uuid"
)

// OfferDTO represents the database structure for a sellable offer.
type OfferDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID         uuid.UUID `gorm:"type:uuid;index"`
	ProductID      uuid.UUID `gorm:"type:uuid;index"`
	Stock          int64
	ReservedInCart int64
}

// TableName specifies the database table name for offers.
func (OfferDTO) TableName() string {
	return "offers"
}

// ReservationDTO represents a cart hold against an offer.
type ReservationDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfferID  uuid.UUID `gorm:"type:uuid;index"`
	Quantity int64
	HeldAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for reservations.
func (ReservationDTO) TableName() string {
	return "offer_reservations"
}

// reservationToDomain converts a database row to a reservation.
func reservationToDomain(dto ReservationDTO) (*shop.Reservation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	offerID, err := kernel.UUIDFromBytes(dto.OfferID[:])
	if err != nil {
		return nil, err
	}

	return shop.NewReservation(id, offerID, dto.Quantity, dto.HeldAt)
}
