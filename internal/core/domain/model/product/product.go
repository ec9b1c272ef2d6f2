package product

import (
	"errors"
	"fmt"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// ErrProductIsNotConstructed is returned when a Product was not created
// through its constructor.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct")

// Product is the catalog read model backing admission price checks and
// substitute lookup. It is never written through this type; the catalog is
// maintained elsewhere.
type Product struct {
	id       kernel.UUID
	shopID   kernel.UUID
	name     string
	category string
	unit     order.UnitKind
	price    kernel.Money
	inStock  bool

	guard guard.ConstructorGuard
}

// NewProduct creates a catalog entry snapshot.
func NewProduct(id, shopID kernel.UUID, name, category string, unit order.UnitKind,
	price kernel.Money, inStock bool,
) (*Product, error) {
	p := &Product{
		inStock: inStock,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setShopID(shopID),
		p.setName(name),
		p.setCategory(category),
		p.setUnit(unit),
		p.setPrice(price),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the Product was created through its constructor.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product identifier.
func (p *Product) ID() kernel.UUID { return p.id }

// ShopID returns the shop the product belongs to.
func (p *Product) ShopID() kernel.UUID { return p.shopID }

// Name returns the display name.
func (p *Product) Name() string { return p.name }

// Category returns the catalog category, e.g. "beef" or "poultry".
func (p *Product) Category() string { return p.category }

// Unit returns whether the product sells by weight or by piece.
func (p *Product) Unit() order.UnitKind { return p.unit }

// Price returns the per-kilogram or per-piece price in minor units.
func (p *Product) Price() kernel.Money { return p.price }

// IsInStock reports whether the product is currently sellable.
func (p *Product) IsInStock() bool { return p.inStock }

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setShopID(shopID kernel.UUID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	p.shopID = shopID
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setCategory(category string) error {
	if category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	p.category = category
	return nil
}

func (p *Product) setUnit(unit order.UnitKind) error {
	if err := unit.Validate(); err != nil {
		return err
	}
	p.unit = unit
	return nil
}

func (p *Product) setPrice(price kernel.Money) error {
	if price <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%d is not greater than 0", price.Int64()))
	}
	p.price = price
	return nil
}
