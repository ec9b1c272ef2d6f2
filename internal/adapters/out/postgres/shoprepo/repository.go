package shoprepo

import (
	"context"
	"errors"

	"clickboucher/internal/core/domain/model/kernel"
	"clickboucher/internal/core/domain/model/shop"
	"clickboucher/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShopRepository implements ShopRepository using GORM.
type GormShopRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShopRepository creates a new GORM shop repository.
func NewGormShopRepository(db *gorm.DB, tracker aggregateTracker) *GormShopRepository {
	return &GormShopRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new availability row to the database.
func (r *GormShopRepository) Add(ctx context.Context, aggregate *shop.Availability) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ShopID(), aggregate)
	return nil
}

// Update persists an existing availability row under optimistic concurrency.
// Rating counters are left untouched; AddRating owns them.
func (r *GormShopRepository) Update(ctx context.Context, aggregate *shop.Availability) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).Model(&AvailabilityDTO{}).
		Where("shop_id = ? AND version = ?", dto.ShopID, aggregate.Version()).
		Select("*").Omit("shop_id", "rating_sum", "rating_count").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictErrorWithCause("update availability",
			aggregate.State().String(),
			errs.NewVersionIsInvalidErrorWithCause("availability version"))
	}

	r.tracker.TrackAggregate(aggregate.ShopID(), aggregate)
	return nil
}

// Get retrieves the availability gate of one shop.
func (r *GormShopRepository) Get(ctx context.Context, shopID kernel.UUID) (*shop.Availability, error) {
	if err := shopID.Validate(); err != nil {
		return nil, err
	}

	var dto AvailabilityDTO
	err := r.db.WithContext(ctx).First(&dto, "shop_id = ?", shopID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shop availability", shopID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetWithTimedState retrieves every shop currently in a state that expires on
// its own. The availability sweep resolves and persists the expired ones.
func (r *GormShopRepository) GetWithTimedState(ctx context.Context) ([]*shop.Availability, error) {
	var dtos []AvailabilityDTO
	err := r.db.WithContext(ctx).
		Where("state IN ?", []int{
			int(shop.StateBusy), int(shop.StatePaused), int(shop.StateAutoPaused),
		}).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	gates := make([]*shop.Availability, 0, len(dtos))
	for _, dto := range dtos {
		gate, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		gates = append(gates, gate)
	}

	return gates, nil
}

// AddRating folds one order rating into the shop's counters. Plain counter
// arithmetic, no version predicate: ratings never conflict with state
// changes.
func (r *GormShopRepository) AddRating(ctx context.Context, shopID kernel.UUID, score int) error {
	if err := shopID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&AvailabilityDTO{}).
		Where("shop_id = ?", shopID.Bytes()).
		UpdateColumns(map[string]any{
			"rating_sum":   gorm.Expr("rating_sum + ?", score),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shop availability", shopID.String())
	}

	return nil
}
