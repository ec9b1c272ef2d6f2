// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by shop and status for the kitchen board and the sweep queries.
type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID         uuid.UUID `gorm:"type:uuid;index:idx_orders_shop_status"`
	Number         int64
	Status         int `gorm:"index:idx_orders_shop_status"`
	PriorStatus    int
	Total          int64
	PickupAsap     bool
	PickupSlotFrom *time.Time
	PickupSlotTo   *time.Time
	PaymentMethod  string
	CustomerNote   string
	BoucherNote    string
	DenyReason     string
	RatingScore    *int
	RatingComment  string
	PickupToken    string
	CreatedAt      time.Time `gorm:"index"`
	AcceptedAt     *time.Time
	EstimatedReady *time.Time
	ActualReady    *time.Time
	PickedUpAt     *time.Time
	Version        int64

	Items    []ItemDTO          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Timeline []TimelineEventDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line.
type ItemDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	ProductID         uuid.UUID `gorm:"type:uuid"`
	Name              string
	Unit              int
	Quantity          int64
	UnitPrice         int64
	LineTotal         int64
	Available         bool
	ReplacedProductID *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// TimelineEventDTO represents one entry of the order's append-only audit log.
// Seq preserves the recording order.
type TimelineEventDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey"`
	Status  int
	Message string
	At      time.Time
}

// TableName specifies the database table name for timeline entries.
func (TimelineEventDTO) TableName() string {
	return "order_timeline"
}

// OrderCounterDTO backs per-shop sequential order numbering.
type OrderCounterDTO struct {
	ShopID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int64
}

// TableName specifies the database table name for order counters.
func (OrderCounterDTO) TableName() string {
	return "shop_order_counters"
}

// fromDomain converts an order aggregate to its database representation.
// The stored version is the one the aggregate was loaded with; Update bumps
// it when persisting.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:             aggregate.ID().Bytes(),
		ShopID:         aggregate.ShopID().Bytes(),
		Number:         aggregate.Number(),
		Status:         int(aggregate.Status()),
		PriorStatus:    int(aggregate.PriorStatus()),
		Total:          aggregate.Total().Int64(),
		PickupAsap:     aggregate.Pickup().IsAsap(),
		PaymentMethod:  string(aggregate.PaymentMethod()),
		CustomerNote:   aggregate.CustomerNote(),
		BoucherNote:    aggregate.BoucherNote(),
		DenyReason:     aggregate.DenyReason(),
		PickupToken:    aggregate.PickupToken(),
		CreatedAt:      aggregate.CreatedAt(),
		AcceptedAt:     aggregate.AcceptedAt(),
		EstimatedReady: aggregate.EstimatedReady(),
		ActualReady:    aggregate.ActualReady(),
		PickedUpAt:     aggregate.PickedUpAt(),
		Version:        aggregate.Version(),
	}

	if !aggregate.Pickup().IsAsap() {
		start, end := aggregate.Pickup().Slot()
		dto.PickupSlotFrom = &start
		dto.PickupSlotTo = &end
	}

	if rating := aggregate.Rating(); rating != nil {
		score := rating.Score
		dto.RatingScore = &score
		dto.RatingComment = rating.Comment
	}

	for _, item := range aggregate.Items() {
		dto.Items = append(dto.Items, itemFromDomain(aggregate.ID(), item))
	}

	for seq, event := range aggregate.Timeline() {
		dto.Timeline = append(dto.Timeline, TimelineEventDTO{
			OrderID: aggregate.ID().Bytes(),
			Seq:     seq,
			Status:  int(event.Status),
			Message: event.Message,
			At:      event.At,
		})
	}

	return dto
}

func itemFromDomain(orderID kernel.UUID, item *order.OrderItem) ItemDTO {
	var replaced *uuid.UUID
	if id := item.ReplacedProductID(); id != nil {
		raw := id.Bytes()
		replaced = &raw
	}

	return ItemDTO{
		ID:                item.ID().Bytes(),
		OrderID:           orderID.Bytes(),
		ProductID:         item.ProductID().Bytes(),
		Name:              item.Name(),
		Unit:              int(item.Unit()),
		Quantity:          item.Quantity(),
		UnitPrice:         item.UnitPrice().Int64(),
		LineTotal:         item.LineTotal().Int64(),
		Available:         item.IsAvailable(),
		ReplacedProductID: replaced,
	}
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	pickup := order.NewAsapPickup()
	if !dto.PickupAsap && dto.PickupSlotFrom != nil && dto.PickupSlotTo != nil {
		pickup, err = order.NewSlotPickup(*dto.PickupSlotFrom, *dto.PickupSlotTo)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*order.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	timeline := make([]order.TimelineEvent, 0, len(dto.Timeline))
	for _, eventDTO := range dto.Timeline {
		timeline = append(timeline, order.TimelineEvent{
			Status:  order.Status(eventDTO.Status),
			Message: eventDTO.Message,
			At:      eventDTO.At,
		})
	}

	var rating *order.Rating
	if dto.RatingScore != nil {
		rating = &order.Rating{Score: *dto.RatingScore, Comment: dto.RatingComment}
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:             id,
		ShopID:         shopID,
		Number:         dto.Number,
		Status:         order.Status(dto.Status),
		PriorStatus:    order.Status(dto.PriorStatus),
		Items:          items,
		Total:          kernel.Money(dto.Total),
		Pickup:         pickup,
		PaymentMethod:  order.PaymentMethod(dto.PaymentMethod),
		CustomerNote:   dto.CustomerNote,
		BoucherNote:    dto.BoucherNote,
		DenyReason:     dto.DenyReason,
		Rating:         rating,
		PickupToken:    dto.PickupToken,
		CreatedAt:      dto.CreatedAt,
		AcceptedAt:     dto.AcceptedAt,
		EstimatedReady: dto.EstimatedReady,
		ActualReady:    dto.ActualReady,
		PickedUpAt:     dto.PickedUpAt,
		Timeline:       timeline,
		Version:        dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*order.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	var replaced *kernel.UUID
	if dto.ReplacedProductID != nil {
		replacedID, replacedErr := kernel.UUIDFromBytes((*dto.ReplacedProductID)[:])
		if replacedErr != nil {
			return nil, replacedErr
		}
		replaced = &replacedID
	}

	return order.RestoreOrderItem(id, productID, dto.Name, order.UnitKind(dto.Unit),
		dto.Quantity, kernel.Money(dto.UnitPrice), kernel.Money(dto.LineTotal),
		dto.Available, replaced)
}
