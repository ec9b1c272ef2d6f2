package orderrepo

import (
	"context"
	"errors"
	"time"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/order"
	"clickboucher/internal/pkg/errs"

	"gorm.io/gorm"
)

// openStatuses are the statuses visible on the kitchen board.
func openStatuses() []order.Status {
	return []order.Status{
		order.Pending, order.Accepted, order.Preparing,
		order.Ready, order.WeightReview, order.PartiallyDenied,
	}
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its lines and timeline to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists an existing order under optimistic concurrency: the row is
// only written while it still carries the version the aggregate was loaded
// with. A concurrent writer that got there first surfaces as a state
// conflict.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	items := dto.Items
	timeline := dto.Timeline
	dto.Items = nil
	dto.Timeline = nil
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictErrorWithCause("update order",
			aggregate.Status().String(),
			errs.NewVersionIsInvalidErrorWithCause("order version"))
	}

	if err := r.replaceChildren(ctx, dto, items, timeline); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// replaceChildren rewrites the order's lines and timeline. Lines mutate under
// substitution and weighing; rewriting both keeps the mapping simple and the
// row counts are tiny.
func (r *GormOrderRepository) replaceChildren(
	ctx context.Context,
	dto OrderDTO,
	items []ItemDTO,
	timeline []TimelineEventDTO,
) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("order_id = ?", dto.ID).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}

	if err := db.Where("order_id = ?", dto.ID).Delete(&TimelineEventDTO{}).Error; err != nil {
		return err
	}
	if len(timeline) > 0 {
		if err := db.Create(&timeline).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves an order by ID, including its lines and timeline.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenByShop retrieves the shop's open orders, oldest first.
func (r *GormOrderRepository) GetOpenByShop(ctx context.Context, shopID kernel.UUID) ([]*order.Order, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("shop_id = ? AND status IN ?", shopID.Bytes(), openStatuses()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetRecentByShop retrieves the shop's orders created at or after the given
// time, newest first.
func (r *GormOrderRepository) GetRecentByShop(ctx context.Context, shopID kernel.UUID, since time.Time) ([]*order.Order, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("shop_id = ? AND created_at >= ?", shopID.Bytes(), since).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetPendingOlderThan retrieves pending orders created before the cutoff,
// across all shops. Used by the stale-order sweep.
func (r *GormOrderRepository) GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preloaded(ctx).
		Where("status = ? AND created_at < ?", order.Pending, cutoff).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// CountAdmittedSince counts the shop's orders created at or after the given
// time. Feeds the hourly admission cap.
func (r *GormOrderRepository) CountAdmittedSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error) {
	if err := shopID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("shop_id = ? AND created_at >= ?", shopID.Bytes(), since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// CountAutoCancelledSince counts the shop's auto-cancellations recorded at or
// after the given time. The timeline carries the cancellation instant, so the
// trailing window follows the transition time rather than order creation.
func (r *GormOrderRepository) CountAutoCancelledSince(ctx context.Context, shopID kernel.UUID, since time.Time) (int, error) {
	if err := shopID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&TimelineEventDTO{}).
		Joins("JOIN orders ON orders.id = order_timeline.order_id").
		Where("orders.shop_id = ? AND order_timeline.status = ? AND order_timeline.at >= ?",
			shopID.Bytes(), order.AutoCancelled, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// NextOrderNumber atomically advances the shop's order counter and returns
// the new value. Numbering starts at 1 per shop.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, shopID kernel.UUID) (int64, error) {
	if err := shopID.Validate(); err != nil {
		return 0, err
	}

	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO shop_order_counters (shop_id, last_number)
		VALUES (?, 1)
		ON CONFLICT (shop_id)
		DO UPDATE SET last_number = shop_order_counters.last_number + 1
		RETURNING last_number
	`, shopID.Bytes()).Scan(&next).Error
	if err != nil {
		return 0, err
	}

	return next, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		})
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
