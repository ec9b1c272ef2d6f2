package shop

import (
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// DefaultReservationHold is how long a cart may hold a reservation before
// the sweep releases it.
const DefaultReservationHold = 30 * time.Minute

var (
	// ErrOfferIsNotConstructed is returned when an Offer was not created
	// through its constructor.
	ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer")

	// ErrReservationIsNotConstructed is returned when a Reservation was not
	// created through its constructor.
	ErrReservationIsNotConstructed = errors.New("Reservation must be created via NewReservation")
)

// Offer is a sellable position of the shop with cart-level reservation
// accounting. reservedInCart is a snapshot: the authoritative counter lives
// in storage and is only ever changed by atomic column updates, never by
// writing an absolute value from this struct back.
type Offer struct {
	id             kernel.UUID
	shopID         kernel.UUID
	productID      kernel.UUID
	stock          int64
	reservedInCart int64

	guard guard.ConstructorGuard
}

// NewOffer creates an offer snapshot.
func NewOffer(id, shopID, productID kernel.UUID, stock, reservedInCart int64) (*Offer, error) {
	o := &Offer{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setShopID(shopID),
		o.setProductID(productID),
		o.setCounts(stock, reservedInCart),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Offer was created through its constructor.
func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

// ID returns the offer identifier.
func (o *Offer) ID() kernel.UUID { return o.id }

// ShopID returns the shop the offer belongs to.
func (o *Offer) ShopID() kernel.UUID { return o.shopID }

// ProductID returns the offered product.
func (o *Offer) ProductID() kernel.UUID { return o.productID }

// Stock returns the on-hand quantity at snapshot time.
func (o *Offer) Stock() int64 { return o.stock }

// ReservedInCart returns the cart-held quantity at snapshot time.
func (o *Offer) ReservedInCart() int64 { return o.reservedInCart }

// Sellable returns the quantity still available to new carts.
func (o *Offer) Sellable() int64 {
	sellable := o.stock - o.reservedInCart
	if sellable < 0 {
		return 0
	}
	return sellable
}

func (o *Offer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Offer) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	o.shopID = shopID
	return nil
}

func (o *Offer) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	o.productID = productID
	return nil
}

func (o *Offer) setCounts(stock, reservedInCart int64) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock",
			fmt.Errorf("%d is negative", stock))
	}
	if reservedInCart < 0 {
		return errs.NewValueIsInvalidErrorWithCause("reservedInCart",
			fmt.Errorf("%d is negative", reservedInCart))
	}
	o.stock = stock
	o.reservedInCart = reservedInCart
	return nil
}

// Reservation is one cart's hold on an offer. Each hold is its own row with
// its own heldAt, so expiry is per reservation rather than a clear-all over
// the whole offer.
type Reservation struct {
	id       kernel.UUID
	offerID  kernel.UUID
	quantity int64
	heldAt   time.Time

	guard guard.ConstructorGuard
}

// NewReservation creates a hold of quantity units on an offer.
func NewReservation(id, offerID kernel.UUID, quantity int64, heldAt time.Time) (*Reservation, error) {
	r := &Reservation{
		heldAt: heldAt,
		guard:  guard.NewConstructorGuard(),
	}

	if err := r.setID(id); err != nil {
		return nil, err
	}
	if err := r.setOfferID(offerID); err != nil {
		return nil, err
	}
	if err := r.setQuantity(quantity); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the Reservation was created through its constructor.
func (r *Reservation) Validate() error {
	if r == nil {
		return ErrReservationIsNotConstructed
	}
	return r.guard.Validate(ErrReservationIsNotConstructed)
}

// ID returns the reservation identifier.
func (r *Reservation) ID() kernel.UUID { return r.id }

// OfferID returns the held offer.
func (r *Reservation) OfferID() kernel.UUID { return r.offerID }

// Quantity returns the held units.
func (r *Reservation) Quantity() int64 { return r.quantity }

// HeldAt returns when the hold was placed.
func (r *Reservation) HeldAt() time.Time { return r.heldAt }

// IsStale reports whether the hold outlived the window as of now.
func (r *Reservation) IsStale(now time.Time, hold time.Duration) bool {
	return now.Sub(r.heldAt) > hold
}

func (r *Reservation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Reservation) setOfferID(offerID kernel.UUID) error {
	if err := offerID.Validate(); err != nil {
		return err
	}
	r.offerID = offerID
	return nil
}

func (r *Reservation) setQuantity(quantity int64) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	r.quantity = quantity
	return nil
}
