package order

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"

	"github.com/google/uuid"
)

// PendingTimeout is how long a Pending order may wait for a shop reaction
// before the sweep auto-cancels it.
const PendingTimeout = 60 * time.Minute

const maxEtaMinutes = 24 * 60

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrPickupTokenMismatch is returned when the presented pickup proof does
	// not byte-match the stored token. The order stays in Ready.
	ErrPickupTokenMismatch = errors.New("presented pickup token does not match")

	// ErrNoItems is returned when an order would be created without lines.
	ErrNoItems = errs.NewValueIsRequiredError("items")
)

// Rating is the customer's post-pickup score.
type Rating struct {
	Score   int
	Comment string
}

// WeightAdjustment carries one item's actually weighed quantity, produced by
// the weighing reconciliation.
type WeightAdjustment struct {
	ItemID      kernel.UUID
	ActualGrams kernel.Grams
}

// ItemDecision is the customer's verdict for one flagged item: remove it or
// replace it with a substitute product.
type ItemDecision struct {
	ItemID      kernel.UUID
	Remove      bool
	Replacement *Replacement
}

// Replacement describes the substitute product applied to a flagged line.
type Replacement struct {
	ProductID kernel.UUID
	Name      string
	Unit      UnitKind
	UnitPrice kernel.Money
}

// Order is the aggregate root of the click-and-collect lifecycle. It owns the
// status machine, its items, the append-only timeline and the pickup proof
// token, and enforces:
//
//   - total always equals the sum of item line totals
//   - status only moves along the transition graph (see Status)
//   - the pickup token is set exactly once, at the transition into Accepted,
//     and is immutable afterwards
//   - exactly one TimelineEvent is appended per committed transition
//
// Orders are never deleted; terminal states are retained for history.
// Concurrent writers are serialized by the version field: repositories only
// persist an Order when the stored version still matches, so a lost race
// surfaces as a state conflict instead of a double-apply.
type Order struct {
	id     kernel.UUID
	shopID kernel.UUID
	// number is the shop-scoped sequential human-readable order number.
	number int64

	status Status
	// priorStatus remembers where the order was frozen when entering
	// WeightReview, so validation can resume the pipeline in place.
	priorStatus Status

	items []*OrderItem
	total kernel.Money

	pickup        PickupTime
	paymentMethod PaymentMethod
	customerNote  string
	boucherNote   string
	denyReason    string
	rating        *Rating

	pickupToken string

	createdAt      time.Time
	acceptedAt     *time.Time
	estimatedReady *time.Time
	actualReady    *time.Time
	pickedUpAt     *time.Time

	timeline []TimelineEvent
	version  int64

	guard guard.ConstructorGuard
}

// NewOrder creates a freshly admitted order in Pending status with its first
// timeline entry. The caller (the admission use case) supplies the
// shop-scoped number and the already validated items.
func NewOrder(id, shopID kernel.UUID, number int64, items []*OrderItem,
	pickup PickupTime, payment PaymentMethod, customerNote string, now time.Time,
) (*Order, error) {
	o := &Order{
		status:       Pending,
		customerNote: customerNote,
		createdAt:    now,
		version:      1,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setShopID(shopID),
		o.setNumber(number),
		o.setItems(items),
		o.setPickup(pickup),
		o.setPaymentMethod(payment),
	); err != nil {
		return nil, err
	}

	o.recomputeTotal()
	o.appendTimeline(Pending, "order submitted", now)
	return o, nil
}

// RestoreOrderParams carries the persisted state needed to reconstruct an
// Order aggregate.
type RestoreOrderParams struct {
	ID             kernel.UUID
	ShopID         kernel.UUID
	Number         int64
	Status         Status
	PriorStatus    Status
	Items          []*OrderItem
	Total          kernel.Money
	Pickup         PickupTime
	PaymentMethod  PaymentMethod
	CustomerNote   string
	BoucherNote    string
	DenyReason     string
	Rating         *Rating
	PickupToken    string
	CreatedAt      time.Time
	AcceptedAt     *time.Time
	EstimatedReady *time.Time
	ActualReady    *time.Time
	PickedUpAt     *time.Time
	Timeline       []TimelineEvent
	Version        int64
}

// RestoreOrder reconstructs an Order from persistence. Unlike NewOrder it
// accepts any valid status and keeps the stored total and timeline untouched.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := p.Status.Validate(); err != nil {
		return nil, err
	}
	if p.Version <= 0 {
		return nil, errs.NewVersionIsInvalidError("order version",
			fmt.Errorf("%d is not greater than 0", p.Version))
	}

	o := &Order{
		status:         p.Status,
		priorStatus:    p.PriorStatus,
		total:          p.Total,
		customerNote:   p.CustomerNote,
		boucherNote:    p.BoucherNote,
		denyReason:     p.DenyReason,
		rating:         p.Rating,
		pickupToken:    p.PickupToken,
		createdAt:      p.CreatedAt,
		acceptedAt:     p.AcceptedAt,
		estimatedReady: p.EstimatedReady,
		actualReady:    p.ActualReady,
		pickedUpAt:     p.PickedUpAt,
		timeline:       p.Timeline,
		version:        p.Version,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setShopID(p.ShopID),
		o.setNumber(p.Number),
		o.setRestoredItems(p.Items),
		o.setPickup(p.Pickup),
		o.setPaymentMethod(p.PaymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// ShopID returns the shop this order was admitted to.
func (o *Order) ShopID() kernel.UUID { return o.shopID }

// Number returns the shop-scoped sequential order number.
func (o *Order) Number() int64 { return o.number }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// PriorStatus returns the status the order will resume to after WeightReview.
func (o *Order) PriorStatus() Status { return o.priorStatus }

// Items returns the order lines. The slice is a copy; the lines are shared.
func (o *Order) Items() []*OrderItem {
	items := make([]*OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// Item returns the line with the given id.
func (o *Order) Item(itemID kernel.UUID) (*OrderItem, error) {
	for _, item := range o.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderItemId", itemID.String())
}

// Total returns the order total in minor currency units.
func (o *Order) Total() kernel.Money { return o.total }

// Pickup returns the requested pickup time.
func (o *Order) Pickup() PickupTime { return o.pickup }

// PaymentMethod returns how the order is paid.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// CustomerNote returns the note the customer attached at submission.
func (o *Order) CustomerNote() string { return o.customerNote }

// BoucherNote returns the shop-side note.
func (o *Order) BoucherNote() string { return o.boucherNote }

// DenyReason returns the reason recorded when the shop denied the order.
func (o *Order) DenyReason() string { return o.denyReason }

// Rating returns the customer rating, nil before completion.
func (o *Order) Rating() *Rating { return o.rating }

// PickupToken returns the opaque pickup proof, empty until accepted.
func (o *Order) PickupToken() string { return o.pickupToken }

// CreatedAt returns the admission timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AcceptedAt returns when the shop accepted, nil before that.
func (o *Order) AcceptedAt() *time.Time { return o.acceptedAt }

// EstimatedReady returns the advisory ready estimate, nil before acceptance.
func (o *Order) EstimatedReady() *time.Time { return o.estimatedReady }

// ActualReady returns when the order was marked ready.
func (o *Order) ActualReady() *time.Time { return o.actualReady }

// PickedUpAt returns when the order was collected.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// Timeline returns a copy of the append-only audit log.
func (o *Order) Timeline() []TimelineEvent {
	timeline := make([]TimelineEvent, len(o.timeline))
	copy(timeline, o.timeline)
	return timeline
}

// Version returns the optimistic-concurrency version this aggregate was
// loaded at.
func (o *Order) Version() int64 { return o.version }

// SetBoucherNote attaches or replaces the shop-side note. Not a transition.
func (o *Order) SetBoucherNote(note string) {
	o.boucherNote = note
}

// Accept commits the shop to the order. It mints the pickup token, stamps
// acceptedAt and derives estimatedReady from the quoted minutes.
func (o *Order) Accept(etaMinutes int, now time.Time) error {
	if etaMinutes < 1 || etaMinutes > maxEtaMinutes {
		return errs.NewValueIsOutOfRangeError("estimatedMinutes", etaMinutes, 1, maxEtaMinutes)
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.mintPickupToken()
	o.acceptedAt = &now
	ready := now.Add(time.Duration(etaMinutes) * time.Minute)
	o.estimatedReady = &ready
	o.appendTimeline(newStatus, fmt.Sprintf("accepted, ready in about %d min", etaMinutes), now)
	return nil
}

// Deny refuses the order, recording the reason.
func (o *Order) Deny(reason string, now time.Time) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	newStatus, err := o.status.Deny()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.denyReason = reason
	o.appendTimeline(newStatus, "denied: "+reason, now)
	return nil
}

// FlagUnavailable marks the given lines out of stock and moves the order to
// PartiallyDenied, awaiting the customer's substitution decisions.
func (o *Order) FlagUnavailable(itemIDs []kernel.UUID, now time.Time) error {
	if len(itemIDs) == 0 {
		return errs.NewValueIsRequiredError("itemIds")
	}

	flagged := make([]*OrderItem, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		item, err := o.Item(itemID)
		if err != nil {
			return err
		}
		flagged = append(flagged, item)
	}

	newStatus, err := o.status.FlagUnavailable()
	if err != nil {
		return err
	}

	for _, item := range flagged {
		item.markUnavailable()
	}
	o.status = newStatus
	o.appendTimeline(newStatus, fmt.Sprintf("%d item(s) unavailable, awaiting customer decision", len(flagged)), now)
	return nil
}

// UnavailableItems returns the lines currently flagged out of stock.
func (o *Order) UnavailableItems() []*OrderItem {
	flagged := make([]*OrderItem, 0)
	for _, item := range o.items {
		if !item.IsAvailable() {
			flagged = append(flagged, item)
		}
	}
	return flagged
}

// ResolveAlternatives applies the customer's decisions for every flagged
// item. Decisions are all-or-nothing: a missing decision rejects the whole
// call with an IncompleteDecisionError, an unknown or unflagged item rejects
// it as invalid. The total is recomputed from the resulting item set; when
// that set is empty the order is cancelled instead of accepted.
func (o *Order) ResolveAlternatives(decisions []ItemDecision, now time.Time) error {
	if o.status != PartiallyDenied {
		return o.status.conflict("resolve_alternatives")
	}

	byItem := make(map[kernel.UUID]ItemDecision, len(decisions))
	for _, d := range decisions {
		item, err := o.Item(d.ItemID)
		if err != nil {
			return err
		}
		if item.IsAvailable() {
			return errs.NewValueIsInvalidErrorWithCause("orderItemId",
				fmt.Errorf("item %s is not flagged unavailable", d.ItemID))
		}
		if _, dup := byItem[d.ItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("decisions",
				fmt.Errorf("duplicate decision for item %s", d.ItemID))
		}
		if !d.Remove && d.Replacement == nil {
			return errs.NewValueIsRequiredError("replacementProductId")
		}
		byItem[d.ItemID] = d
	}

	var missing []string
	for _, item := range o.UnavailableItems() {
		if _, ok := byItem[item.ID()]; !ok {
			missing = append(missing, item.ID().String())
		}
	}
	if len(missing) > 0 {
		return errs.NewIncompleteDecisionError(missing)
	}

	kept := make([]*OrderItem, 0, len(o.items))
	for _, item := range o.items {
		d, flagged := byItem[item.ID()]
		if !flagged {
			kept = append(kept, item)
			continue
		}
		if d.Remove {
			continue
		}
		r := d.Replacement
		if err := item.applySubstitution(r.ProductID, r.Name, r.Unit, r.UnitPrice); err != nil {
			return err
		}
		kept = append(kept, item)
	}

	newStatus, err := o.status.Resolve(len(kept) == 0)
	if err != nil {
		return err
	}

	o.items = kept
	o.recomputeTotal()
	o.status = newStatus

	if newStatus == Cancelled {
		o.appendTimeline(newStatus, "all items removed, order cancelled", now)
		return nil
	}

	o.mintPickupToken()
	o.acceptedAt = &now
	o.appendTimeline(newStatus, "alternatives resolved, order accepted", now)
	return nil
}

// StartPreparing records that the kitchen started working on the order.
func (o *Order) StartPreparing(now time.Time) error {
	newStatus, err := o.status.StartPreparing()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, "preparation started", now)
	return nil
}

// MarkReady records that the order is ready for pickup.
func (o *Order) MarkReady(now time.Time) error {
	newStatus, err := o.status.MarkReady()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.actualReady = &now
	o.appendTimeline(newStatus, "ready for pickup", now)
	return nil
}

// AddTime extends the advisory ready estimate. The status stays in place and
// no timeline entry is appended because no transition is committed.
func (o *Order) AddTime(minutes int, now time.Time) error {
	if minutes < 1 || minutes > maxEtaMinutes {
		return errs.NewValueIsOutOfRangeError("addMinutes", minutes, 1, maxEtaMinutes)
	}
	if err := o.status.ValidateAddTime(); err != nil {
		return err
	}

	base := now
	if o.estimatedReady != nil && o.estimatedReady.After(now) {
		base = *o.estimatedReady
	}
	extended := base.Add(time.Duration(minutes) * time.Minute)
	o.estimatedReady = &extended
	return nil
}

// ApplyWeighing records the actually weighed quantities, reprices the
// affected lines and recomputes the total. When freeze is set (some check
// exceeded the tolerance) the order moves to WeightReview, remembering the
// state it was frozen in; otherwise the totals change silently in place.
func (o *Order) ApplyWeighing(adjustments []WeightAdjustment, freeze bool, now time.Time) error {
	if len(adjustments) == 0 {
		return errs.NewValueIsRequiredError("checks")
	}
	// Weighing is only meaningful while the order is in the kitchen pipeline.
	if o.status != Accepted && o.status != Preparing && o.status != Ready {
		return o.status.conflict("weighing_result")
	}

	for _, adj := range adjustments {
		item, err := o.Item(adj.ItemID)
		if err != nil {
			return err
		}
		if err := item.applyWeighing(adj.ActualGrams); err != nil {
			return err
		}
	}
	o.recomputeTotal()

	if !freeze {
		return nil
	}

	newStatus, err := o.status.EnterWeightReview()
	if err != nil {
		return err
	}
	o.priorStatus = o.status
	o.status = newStatus
	o.appendTimeline(newStatus,
		fmt.Sprintf("weighed total %s exceeds tolerance, awaiting customer approval", o.total), now)
	return nil
}

// ValidateNewPrice records the customer's consent to the weighed total and
// resumes the pipeline where it was frozen.
func (o *Order) ValidateNewPrice(now time.Time) error {
	newStatus, err := o.status.ResumeFromWeightReview(o.priorStatus)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.priorStatus = Unknown
	o.appendTimeline(newStatus, "new total approved by customer", now)
	return nil
}

// RejectNewPrice cancels the order because the customer refused the weighed
// total.
func (o *Order) RejectNewPrice(now time.Time) error {
	newStatus, err := o.status.RejectNewPrice()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.priorStatus = Unknown
	o.appendTimeline(newStatus, "new total rejected by customer", now)
	return nil
}

// ConfirmPickup validates the presented pickup proof against the stored
// token and hands the order over. A mismatch leaves the order in Ready.
func (o *Order) ConfirmPickup(presentedToken string, now time.Time) error {
	newStatus, err := o.status.ConfirmPickup()
	if err != nil {
		return err
	}

	if o.pickupToken == "" ||
		subtle.ConstantTimeCompare([]byte(o.pickupToken), []byte(presentedToken)) != 1 {
		return ErrPickupTokenMismatch
	}

	o.status = newStatus
	o.pickedUpAt = &now
	o.appendTimeline(newStatus, "picked up, token verified", now)
	return nil
}

// ManualPickup hands the order over without token verification. Always
// available from Ready as a fallback; the timeline marks it as the
// lower-trust path.
func (o *Order) ManualPickup(now time.Time) error {
	newStatus, err := o.status.ConfirmPickup()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.pickedUpAt = &now
	o.appendTimeline(newStatus, "picked up, confirmed manually", now)
	return nil
}

// Cancel is the customer-initiated cancellation, valid only while the order
// is in a customer-cancellable state.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.CancelByCustomer()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, "cancelled by customer", now)
	return nil
}

// AutoCancel is the sweep-driven cancellation of a Pending order that
// outlived the accept deadline. It refuses to fire before the deadline.
func (o *Order) AutoCancel(now time.Time) error {
	if now.Sub(o.createdAt) <= PendingTimeout {
		return o.status.conflict("auto_cancel")
	}

	newStatus, err := o.status.AutoCancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTimeline(newStatus, "auto-cancelled, shop did not react in time", now)
	return nil
}

// Rate records the customer's score and completes the order.
func (o *Order) Rate(score int, comment string, now time.Time) error {
	if score < 1 || score > 5 {
		return errs.NewValueIsOutOfRangeError("score", score, 1, 5)
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.rating = &Rating{Score: score, Comment: comment}
	o.appendTimeline(newStatus, fmt.Sprintf("rated %d/5", score), now)
	return nil
}

// mintPickupToken sets the pickup proof exactly once; later transitions into
// Accepted (after a stock resolution) keep the original token.
func (o *Order) mintPickupToken() {
	if o.pickupToken != "" {
		return
	}
	o.pickupToken = uuid.NewString()
}

func (o *Order) recomputeTotal() {
	var total kernel.Money
	for _, item := range o.items {
		total = total.Add(item.LineTotal())
	}
	o.total = total
}

func (o *Order) appendTimeline(status Status, message string, at time.Time) {
	o.timeline = append(o.timeline, TimelineEvent{Status: status, Message: message, At: at})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	o.shopID = shopID
	return nil
}

func (o *Order) setNumber(number int64) error {
	if number <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("number",
			fmt.Errorf("%d is not greater than 0", number))
	}
	o.number = number
	return nil
}

func (o *Order) setItems(items []*OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	return o.setRestoredItems(items)
}

// setRestoredItems accepts an empty set: a stock resolution that removes
// every line leaves a persisted Cancelled order with no item rows.
func (o *Order) setRestoredItems(items []*OrderItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}

func (o *Order) setPickup(pickup PickupTime) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setPaymentMethod(payment PaymentMethod) error {
	if err := payment.Validate(); err != nil {
		return err
	}
	o.paymentMethod = payment
	return nil
}
