package queries

import (
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/pkg/errs"
	"clickboucher/internal/pkg/guard"
)

// historyWindow bounds the closed-order tail shown next to the live board.
const historyWindow = 72 * time.Hour

var (
	ErrGetKitchenBoardQueryIsNotConstructed = errors.New(
		"GetKitchenBoardQuery must be created via NewGetKitchenBoardQuery constructor",
	)
)

// GetKitchenBoardQuery retrieves the kitchen's working view for one shop:
// every open order (pending, accepted, preparing, ready, weight review or
// partially denied) plus the recently closed ones for context.
//
// Example:
//
//	query, err := NewGetKitchenBoardQuery(shopID, time.Now())
//	if err != nil {
//	    return err
//	}
//	handler := NewGetKitchenBoardQueryHandler(db)
//
//	board, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load kitchen board: %w", err)
//	}
//
//	fmt.Printf("%d open, %d recent\n", len(board.Open), len(board.Recent))
type GetKitchenBoardQuery struct {
	shopID kernel.UUID
	now    time.Time

	guard guard.ConstructorGuard
}

// NewGetKitchenBoardQuery creates a board query for the given shop.
// The reference time anchors the closed-order history window.
func NewGetKitchenBoardQuery(shopID kernel.UUID, now time.Time) (GetKitchenBoardQuery, error) {
	if err := shopID.Validate(); err != nil {
		return GetKitchenBoardQuery{}, errs.NewValueIsRequiredErrorWithCause("shopID", err)
	}
	if now.IsZero() {
		return GetKitchenBoardQuery{}, errs.NewValueIsRequiredError("now")
	}

	return GetKitchenBoardQuery{
		shopID: shopID,
		now:    now,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// ShopID returns the shop whose board is requested.
func (q GetKitchenBoardQuery) ShopID() kernel.UUID { return q.shopID }

// Now returns the reference time for the history window.
func (q GetKitchenBoardQuery) Now() time.Time { return q.now }

// Validate ensures the query was created through the constructor.
// Returns ErrGetKitchenBoardQueryIsNotConstructed if validation fails.
func (q GetKitchenBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenBoardQueryIsNotConstructed)
}

// GetKitchenBoardQueryResponse is the full board: open orders oldest first,
// recently closed orders newest first.
type GetKitchenBoardQueryResponse struct {
	Open   []KitchenBoardOrder
	Recent []KitchenBoardOrder
}

// KitchenBoardOrder is the read model of one order on the board.
type KitchenBoardOrder struct {
	ID             kernel.UUID
	Number         int64
	Status         string
	Total          kernel.Money
	CustomerNote   string
	PickupAsap     bool
	CreatedAt      time.Time
	EstimatedReady *time.Time
	Items          []KitchenBoardItem
}

// KitchenBoardItem is the read model of one order line.
type KitchenBoardItem struct {
	Name      string
	Unit      string
	Quantity  int64
	LineTotal kernel.Money
	Available bool
}
