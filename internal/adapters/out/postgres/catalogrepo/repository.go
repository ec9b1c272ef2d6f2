package catalogrepo

import (
	"context"
	"errors"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/product"
	"clickboucher/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// GetProduct retrieves one catalog product by ID.
func (r *GormCatalogRepository) GetProduct(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetProducts retrieves the shop's full catalog, sorted by name.
func (r *GormCatalogRepository) GetProducts(ctx context.Context, shopID kernel.UUID) ([]*product.Product, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ProductDTO
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID.Bytes()).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	products := make([]*product.Product, 0, len(dtos))
	for _, dto := range dtos {
		p, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		products = append(products, p)
	}

	return products, nil
}

// Seed inserts or refreshes catalog products. Intended for bootstrap and
// tests.
func (r *GormCatalogRepository) Seed(ctx context.Context, products []*product.Product) error {
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		dto := fromDomain(p)
		if err := r.db.WithContext(ctx).Save(&dto).Error; err != nil {
			return err
		}
	}
	return nil
}
