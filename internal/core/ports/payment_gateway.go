package ports

import (
	"context"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
)

// PaymentGateway authorizes online payments at admission. On-pickup orders
// never reach the gateway; card and Twint orders are authorized for the
// submitted total before the order is persisted.
type PaymentGateway interface {
	Authorize(ctx context.Context, orderID kernel.UUID, method order.PaymentMethod, amount kernel.Money) error
}
