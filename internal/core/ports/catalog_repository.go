package ports

import (
	"context"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/product"
)

// CatalogRepository is the read-only contract over the shop's product
// catalog. The engine never writes products; it prices order lines at
// admission and looks up substitutes from here.
type CatalogRepository interface {
	// GetProduct retrieves one catalog entry.
	GetProduct(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetProducts retrieves the shop's full catalog.
	GetProducts(ctx context.Context, shopID kernel.UUID) ([]*product.Product, error)
}
