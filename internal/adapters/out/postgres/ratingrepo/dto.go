// Package ratingrepo persists customer ratings of delivered legs.
package ratingrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/rating"

	"github.com/google/uuid"
)

// RatingDTO maps the ratings table. leg_id is unique, one rating per leg.
type RatingDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LegID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CarrierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Stars     int       `gorm:"type:smallint;not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

func (RatingDTO) TableName() string {
	return "ratings"
}

func fromDomain(r *rating.Rating) RatingDTO {
	return RatingDTO{
		ID:        r.ID().Bytes(),
		LegID:     r.LegID().Bytes(),
		CarrierID: r.CarrierID().Bytes(),
		Stars:     r.Stars(),
		Comment:   r.Comment(),
		CreatedAt: r.CreatedAt(),
	}
}

func toDomain(dto RatingDTO) (*rating.Rating, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	legID, err := kernel.UUIDFromBytes(dto.LegID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	return rating.RestoreRating(id, legID, carrierID, dto.Stars, dto.Comment, dto.CreatedAt)
}
