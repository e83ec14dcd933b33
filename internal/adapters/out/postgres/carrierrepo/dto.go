// Package carrierrepo persists carrier aggregates together with their
// rating aggregate columns.
package carrierrepo

import (
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierDTO maps the carriers table. RatingAverage holds the value already
// rounded to carrier.AveragePrecision.
type CarrierDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(255);not null"`
	RatingAverage decimal.Decimal `gorm:"type:numeric(12,8);not null;default:0"`
	RatingCount   int             `gorm:"type:int;not null;default:0"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time
}

func (CarrierDTO) TableName() string {
	return "carriers"
}

func fromDomain(c *carrier.Carrier) CarrierDTO {
	return CarrierDTO{
		ID:            c.ID().Bytes(),
		Name:          c.Name(),
		RatingAverage: c.Rating().Average(),
		RatingCount:   c.Rating().Count(),
	}
}

func toDomain(dto CarrierDTO) (*carrier.Carrier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	rating, err := carrier.NewRatingAggregate(dto.RatingAverage, dto.RatingCount)
	if err != nil {
		return nil, err
	}

	return carrier.RestoreCarrier(id, dto.Name, rating)
}
