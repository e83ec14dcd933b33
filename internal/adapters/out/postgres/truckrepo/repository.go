package truckrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/lock"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTruckRepository implements ports.TruckRepository using GORM.
type GormTruckRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker collects saved aggregates whose domain events are
// published after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate ddd.EventSource)
}

// NewGormTruckRepository creates a repository bound to db. Saved trucks are
// handed to tracker so MaintenanceDue publishes after commit.
func NewGormTruckRepository(db *gorm.DB, tracker aggregateTracker) *GormTruckRepository {
	return &GormTruckRepository{db: db, tracker: tracker}
}

// Add inserts a truck and tracks it.
func (r *GormTruckRepository) Add(ctx context.Context, aggregate *truck.Truck) error {
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

// Update saves every column and tracks the truck. A missing row is a
// not-found error.
func (r *GormTruckRepository) Update(ctx context.Context, aggregate *truck.Truck) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("truck", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTruckRepository) Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads the truck and locks its row. Lifecycle handlers take
// this lock first.
func (r *GormTruckRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	return r.get(lock.ForUpdate(r.db.WithContext(ctx)), id)
}

// ListActiveIDs returns the ids of active trucks in id order. The
// maintenance job walks this list.
func (r *GormTruckRepository) ListActiveIDs(ctx context.Context) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&TruckDTO{}).
		Where("active = ?", true).
		Order("id").
		Pluck("id", &raw).Error; err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, err := kernel.UUIDFromBytes(b[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormTruckRepository) get(db *gorm.DB, id kernel.UUID) (*truck.Truck, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TruckDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("truck", id)
		}
		return nil, err
	}

	return toDomain(dto)
}
