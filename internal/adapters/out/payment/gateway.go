// Package payment holds the payment gateway adapter. The shop settles online
// payments through an external provider; this adapter records the
// authorization request and accepts it, standing in until the provider
// integration lands.
package payment

import (
	"context"
	"log/slog"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
)

// LogGateway implements ports.PaymentGateway by logging and approving every
// authorization.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway creates the logging gateway.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	return &LogGateway{logger: logger.With("component", "payment_gateway")}
}

// Authorize approves the payment after recording it.
func (g *LogGateway) Authorize(_ context.Context, orderID kernel.UUID, method order.PaymentMethod, amount kernel.Money) error {
	g.logger.Info("payment authorized",
		"order_id", orderID.String(),
		"method", string(method),
		"amount", amount.String(),
	)
	return nil
}
