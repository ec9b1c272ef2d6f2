package queries

import (
	"context"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetKitchenBoardQueryHandler loads the kitchen board straight from the
// database. Reads bypass the aggregate and scan into read models, which keeps
// the board cheap to refresh.
//
// Example:
//
//	handler := NewGetKitchenBoardQueryHandler(db)
//	query, _ := NewGetKitchenBoardQuery(shopID, time.Now())
//
//	board, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to load kitchen board: %v", err)
//	    return err
//	}
type GetKitchenBoardQueryHandler struct {
	db *gorm.DB
}

// NewGetKitchenBoardQueryHandler creates a handler for kitchen board queries.
// Requires a GORM database connection for query execution.
func NewGetKitchenBoardQueryHandler(db *gorm.DB) GetKitchenBoardQueryHandler {
	return GetKitchenBoardQueryHandler{db: db}
}

// Handle executes the board query. Open orders come back oldest first so the
// kitchen works the queue top down; the closed tail covers the history window
// and comes back newest first.
func (h GetKitchenBoardQueryHandler) Handle(
	ctx context.Context,
	query GetKitchenBoardQuery,
) (GetKitchenBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetKitchenBoardQueryResponse{}, err
	}

	open, err := h.scanOrders(ctx, `
		SELECT
			id,
			number,
			status,
			total,
			customer_note,
			pickup_asap,
			created_at,
			estimated_ready
		FROM orders
		WHERE shop_id = ? AND status IN ?
		ORDER BY created_at
	`, query.ShopID().Bytes(), []order.Status{
		order.Pending, order.Accepted, order.Preparing,
		order.Ready, order.WeightReview, order.PartiallyDenied,
	})
	if err != nil {
		return GetKitchenBoardQueryResponse{}, err
	}

	recent, err := h.scanOrders(ctx, `
		SELECT
			id,
			number,
			status,
			total,
			customer_note,
			pickup_asap,
			created_at,
			estimated_ready
		FROM orders
		WHERE shop_id = ? AND status IN ? AND created_at >= ?
		ORDER BY created_at DESC
	`, query.ShopID().Bytes(), []order.Status{
		order.PickedUp, order.Completed, order.Denied,
		order.Cancelled, order.AutoCancelled,
	}, query.Now().Add(-historyWindow))
	if err != nil {
		return GetKitchenBoardQueryResponse{}, err
	}

	if err = h.attachItems(ctx, open, recent); err != nil {
		return GetKitchenBoardQueryResponse{}, err
	}

	return GetKitchenBoardQueryResponse{Open: open, Recent: recent}, nil
}

func (h GetKitchenBoardQueryHandler) scanOrders(
	ctx context.Context,
	sql string,
	values ...any,
) ([]KitchenBoardOrder, error) {
	orders := make([]KitchenBoardOrder, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, values...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var boardOrder KitchenBoardOrder
		var id uuid.UUID
		var status order.Status
		var total int64
		var estimatedReady *time.Time

		err = rows.Scan(
			&id,
			&boardOrder.Number,
			&status,
			&total,
			&boardOrder.CustomerNote,
			&boardOrder.PickupAsap,
			&boardOrder.CreatedAt,
			&estimatedReady,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		boardOrder.ID = orderID
		boardOrder.Status = status.String()
		boardOrder.Total = kernel.Money(total)
		boardOrder.EstimatedReady = estimatedReady
		orders = append(orders, boardOrder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the order lines for both board sections in one query and
// distributes them by order ID.
func (h GetKitchenBoardQueryHandler) attachItems(
	ctx context.Context,
	sections ...[]KitchenBoardOrder,
) error {
	index := make(map[kernel.UUID]*KitchenBoardOrder)
	ids := make([]uuid.UUID, 0)
	for _, section := range sections {
		for i := range section {
			index[section[i].ID] = &section[i]
			ids = append(ids, section[i].ID.Bytes())
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			name,
			unit,
			quantity,
			line_total,
			available
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, id
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item KitchenBoardItem
		var orderID uuid.UUID
		var unit order.UnitKind
		var lineTotal int64

		err = rows.Scan(
			&orderID,
			&item.Name,
			&unit,
			&item.Quantity,
			&lineTotal,
			&item.Available,
		)
		if err != nil {
			return err
		}

		id, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return idErr
		}
		item.Unit = unit.String()
		item.LineTotal = kernel.Money(lineTotal)
		if boardOrder, ok := index[id]; ok {
			boardOrder.Items = append(boardOrder.Items, item)
		}
	}

	return rows.Err()
}
