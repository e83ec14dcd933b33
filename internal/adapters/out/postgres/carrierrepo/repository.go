package carrierrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/lock"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCarrierRepository implements ports.CarrierRepository using GORM.
type GormCarrierRepository struct {
	db *gorm.DB
}

// NewGormCarrierRepository creates a repository bound to db.
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// Add inserts the carrier with its rating aggregate.
func (r *GormCarrierRepository) Add(ctx context.Context, aggregate *carrier.Carrier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the name and the rating aggregate.
func (r *GormCarrierRepository) Update(ctx context.Context, aggregate *carrier.Carrier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CarrierDTO{ID: dto.ID}).
		Select("name", "rating_average", "rating_count", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("carrier", aggregate.ID())
	}
	return nil
}

func (r *GormCarrierRepository) Get(ctx context.Context, id kernel.UUID) (*carrier.Carrier, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads the carrier and locks its row. Rating handlers hold
// this lock across the average's read-modify-write.
func (r *GormCarrierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*carrier.Carrier, error) {
	return r.get(lock.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormCarrierRepository) get(db *gorm.DB, id kernel.UUID) (*carrier.Carrier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CarrierDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("carrier", id)
		}
		return nil, err
	}

	return toDomain(dto)
}
