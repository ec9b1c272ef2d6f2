package order

import (
	"errors"
	"fmt"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// UnitKind distinguishes how an item's quantity and price are interpreted.
type UnitKind int

const (
	// UnitUnknown is the invalid zero value.
	UnitUnknown UnitKind = iota
	// UnitCount sells by piece; quantity is a piece count, unitPrice is per piece.
	UnitCount
	// UnitWeight sells by weight; quantity is grams, unitPrice is per kilogram.
	UnitWeight
)

// String returns "count" or "weight", or "unknown" for invalid kinds.
func (u UnitKind) String() string {
	switch u {
	case UnitCount:
		return "count"
	case UnitWeight:
		return "weight"
	default:
		return "unknown"
	}
}

// Validate rejects kinds outside the enum.
func (u UnitKind) Validate() error {
	if u != UnitCount && u != UnitWeight {
		return errs.NewValueIsInvalidErrorWithCause("unitKind",
			fmt.Errorf("%d is not a valid unit kind", u))
	}
	return nil
}

// ErrOrderItemIsNotConstructed is returned when an OrderItem was not created
// through its constructors.
var ErrOrderItemIsNotConstructed = errors.New("OrderItem must be created via NewOrderItem or RestoreOrderItem")

// OrderItem is a line of an Order. It belongs to exactly one order and keeps
// its own line total so the order invariant total = sum(lineTotal) can be
// recomputed locally.
//
// For weight-based items lineTotal = round(grams/1000 × unitPrice). Once an
// item is flagged unavailable its line total is frozen until a substitution
// decision is applied.
type OrderItem struct {
	id        kernel.UUID
	productID kernel.UUID
	name      string
	unit      UnitKind
	quantity  int64
	unitPrice kernel.Money
	lineTotal kernel.Money
	available bool
	// replacedProductID remembers the out-of-stock product this line used to
	// reference after a substitution was applied.
	replacedProductID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrderItem creates a line for the given product. The line total is
// derived from the unit kind: piece count × price, or the rounded weight
// price for weight-sold goods.
func NewOrderItem(id, productID kernel.UUID, name string, unit UnitKind, quantity int64, unitPrice kernel.Money) (*OrderItem, error) {
	item := &OrderItem{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProduct(productID, name),
		item.setUnit(unit),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	item.recomputeLineTotal()
	return item, nil
}

// RestoreOrderItem reconstructs a line from persistence without recomputing
// the stored line total.
func RestoreOrderItem(id, productID kernel.UUID, name string, unit UnitKind, quantity int64,
	unitPrice, lineTotal kernel.Money, available bool, replacedProductID *kernel.UUID,
) (*OrderItem, error) {
	item := &OrderItem{
		available:         available,
		lineTotal:         lineTotal,
		replacedProductID: replacedProductID,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setID(id),
		item.setProduct(productID, name),
		item.setUnit(unit),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate ensures the item was created through a constructor.
func (i *OrderItem) Validate() error {
	if i == nil {
		return ErrOrderItemIsNotConstructed
	}
	return i.guard.Validate(ErrOrderItemIsNotConstructed)
}

// ID returns the line identifier.
func (i *OrderItem) ID() kernel.UUID { return i.id }

// ProductID returns the referenced product.
func (i *OrderItem) ProductID() kernel.UUID { return i.productID }

// Name returns the product name captured at submission time.
func (i *OrderItem) Name() string { return i.name }

// Unit returns the unit kind.
func (i *OrderItem) Unit() UnitKind { return i.unit }

// Quantity returns grams for weight items, pieces for count items.
func (i *OrderItem) Quantity() int64 { return i.quantity }

// UnitPrice returns the per-kilogram or per-piece price.
func (i *OrderItem) UnitPrice() kernel.Money { return i.unitPrice }

// LineTotal returns the current line total.
func (i *OrderItem) LineTotal() kernel.Money { return i.lineTotal }

// IsAvailable reports whether the line is not flagged out of stock.
func (i *OrderItem) IsAvailable() bool { return i.available }

// ReplacedProductID returns the product this line substituted, if any.
func (i *OrderItem) ReplacedProductID() *kernel.UUID { return i.replacedProductID }

// markUnavailable flags the line out of stock. The line total is left as-is:
// it stays frozen until a substitution decision is applied.
func (i *OrderItem) markUnavailable() {
	i.available = false
}

// applySubstitution swaps the line to a replacement product, keeping the
// requested quantity and recomputing the line total at the new price.
func (i *OrderItem) applySubstitution(productID kernel.UUID, name string, unit UnitKind, unitPrice kernel.Money) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	if unit != i.unit {
		return errs.NewValueIsInvalidErrorWithCause("replacementProductId",
			fmt.Errorf("unit kind %s does not match %s", unit, i.unit))
	}

	previous := i.productID
	i.replacedProductID = &previous
	i.productID = productID
	i.name = name
	i.unitPrice = unitPrice
	i.available = true
	i.recomputeLineTotal()
	return nil
}

// applyWeighing records the actually weighed quantity for a weight item and
// reprices the line from it.
func (i *OrderItem) applyWeighing(actualGrams kernel.Grams) error {
	if i.unit != UnitWeight {
		return errs.NewValueIsInvalidErrorWithCause("itemId",
			fmt.Errorf("item %s is not sold by weight", i.id))
	}

	i.quantity = actualGrams.Int64()
	i.recomputeLineTotal()
	return nil
}

func (i *OrderItem) recomputeLineTotal() {
	if i.unit == UnitWeight {
		i.lineTotal = kernel.WeightPrice(kernel.Grams(i.quantity), i.unitPrice)
		return
	}
	i.lineTotal = kernel.Money(i.quantity) * i.unitPrice
}

func (i *OrderItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *OrderItem) setProduct(productID kernel.UUID, name string) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.productID = productID
	i.name = name
	return nil
}

func (i *OrderItem) setUnit(unit UnitKind) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	i.unit = unit
	return nil
}

func (i *OrderItem) setQuantity(quantity int64) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *OrderItem) setUnitPrice(unitPrice kernel.Money) error {
	if unitPrice <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is not greater than 0", unitPrice.Int64()))
	}
	i.unitPrice = unitPrice
	return nil
}
