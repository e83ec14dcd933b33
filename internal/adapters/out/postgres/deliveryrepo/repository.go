package deliveryrepo

import (
	"context"

	"freight/internal/adapters/out/postgres/lock"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate ddd.EventSource)
}

// NewGormDeliveryRepository creates a repository bound to db. Saved
// deliveries are handed to tracker so their events publish after commit.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db, tracker: tracker}
}

// Add inserts the delivery and its legs.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
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

// Update writes the delivery row and upserts its legs. Legs are never
// deleted.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&DeliveryDTO{ID: dto.ID}).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", aggregate.ID())
	}

	if len(dto.Legs) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&dto.Legs).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads a delivery with all its legs.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads a delivery and locks its row until the transaction
// ends. Leg rows are not locked; they change only through their delivery.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(lock.ForUpdate(r.db.WithContext(ctx)), id)
}

// FindScheduled returns the truck's scheduled delivery, locked, or nil when
// there is none. At most one exists per truck, enforced by a partial unique
// index.
func (r *GormDeliveryRepository) FindScheduled(ctx context.Context, truckID kernel.UUID) (*delivery.Delivery, error) {
	if err := truckID.Validate(); err != nil {
		return nil, err
	}

	return r.find(lock.ForUpdate(r.db.WithContext(ctx)).
		Where("truck_id = ? AND state = ?", truckID.Bytes(), string(delivery.StateScheduled)))
}

// HasInProgress reports whether the truck is on a run.
func (r *GormDeliveryRepository) HasInProgress(ctx context.Context, truckID kernel.UUID) (bool, error) {
	if err := truckID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("truck_id = ? AND state = ?", truckID.Bytes(), string(delivery.StateInProgress)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByOpenLeg returns the locked delivery holding the shipment's pending
// leg, or nil when the shipment has no open leg.
func (r *GormDeliveryRepository) FindByOpenLeg(ctx context.Context, shipmentID kernel.UUID) (*delivery.Delivery, error) {
	if err := shipmentID.Validate(); err != nil {
		return nil, err
	}

	openLegs := r.db.WithContext(ctx).
		Model(&LegDTO{}).
		Select("delivery_id").
		Where("shipment_id = ? AND outcome = ?", shipmentID.Bytes(), string(delivery.OutcomePending))

	return r.find(lock.ForUpdate(r.db.WithContext(ctx)).Where("id IN (?)", openLegs))
}

// FindByLeg returns the delivery a leg belongs to, without locking it.
// An unknown leg is a not-found error wrapping delivery.ErrLegNotFound.
func (r *GormDeliveryRepository) FindByLeg(ctx context.Context, legID kernel.UUID) (*delivery.Delivery, error) {
	if err := legID.Validate(); err != nil {
		return nil, err
	}

	var deliveryIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&LegDTO{}).
		Where("id = ?", legID.Bytes()).
		Pluck("delivery_id", &deliveryIDs).Error; err != nil {
		return nil, err
	}
	if len(deliveryIDs) == 0 {
		return nil, errs.NewObjectNotFoundErrorWithCause("leg", legID, delivery.ErrLegNotFound)
	}

	id, err := kernel.UUIDFromBytes(deliveryIDs[0][:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *GormDeliveryRepository) get(db *gorm.DB, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	d, err := r.find(db.Where("id = ?", id.Bytes()))
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, errs.NewObjectNotFoundError("delivery", id)
	}
	return d, nil
}

// find returns the first delivery matched by db with its legs, or nil.
func (r *GormDeliveryRepository) find(db *gorm.DB) (*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	if err := db.
		Preload("Legs", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at, id")
		}).
		Limit(1).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	return toDomain(dtos[0])
}
