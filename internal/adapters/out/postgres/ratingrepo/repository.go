package ratingrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/lock"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rating"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRatingRepository implements ports.RatingRepository using GORM.
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a repository bound to db.
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// Add inserts a rating. A second rating of the same leg violates the unique
// leg_id index.
func (r *GormRatingRepository) Add(ctx context.Context, aggregate *rating.Rating) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes stars, comment and updated_at only.
func (r *GormRatingRepository) Update(ctx context.Context, aggregate *rating.Rating) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RatingDTO{ID: dto.ID}).
		Select("stars", "comment", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rating", aggregate.ID())
	}
	return nil
}

// Delete removes the row. Deleting a missing rating is a not-found error.
func (r *GormRatingRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&RatingDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("rating", id)
	}
	return nil
}

func (r *GormRatingRepository) Get(ctx context.Context, id kernel.UUID) (*rating.Rating, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads the rating and locks its row.
func (r *GormRatingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*rating.Rating, error) {
	return r.get(lock.ForUpdate(r.db.WithContext(ctx)), id)
}

// ExistsForLeg reports whether the leg has been rated.
func (r *GormRatingRepository) ExistsForLeg(ctx context.Context, legID kernel.UUID) (bool, error) {
	if err := legID.Validate(); err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&RatingDTO{}).
		Where("leg_id = ?", legID.Bytes()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRatingRepository) get(db *gorm.DB, id kernel.UUID) (*rating.Rating, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RatingDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("rating", id)
		}
		return nil, err
	}

	return toDomain(dto)
}
