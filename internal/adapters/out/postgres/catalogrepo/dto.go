// Package catalogrepo reads the product catalog. The catalog is maintained
// elsewhere; order intake and substitution only ever read it, so the
// repository exposes no writes beyond seeding.
package catalogrepo

import (
	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for catalog products.
type ProductDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID   uuid.UUID `gorm:"type:uuid;index"`
	Name     string
	Category string `gorm:"index"`
	Unit     int
	Price    int64
	InStock  bool
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

// fromDomain converts a product to its database representation.
func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID().Bytes(),
		ShopID:   p.ShopID().Bytes(),
		Name:     p.Name(),
		Category: p.Category(),
		Unit:     int(p.Unit()),
		Price:    p.Price().Int64(),
		InStock:  p.IsInStock(),
	}
}

// toDomain converts a database row to a product.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	return product.NewProduct(id, shopID, dto.Name, dto.Category,
		order.UnitKind(dto.Unit), kernel.Money(dto.Price), dto.InStock)
}
