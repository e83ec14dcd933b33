// Package truckrepo persists truck aggregates.
package truckrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"

	"github.com/google/uuid"
)

// TruckDTO maps the trucks table.
type TruckDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CarrierID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	Plate          string      `gorm:"type:varchar(32);not null"`
	Mileage        int         `gorm:"type:int;not null"`
	Capacity       CapacityDTO `gorm:"embedded;embeddedPrefix:capacity_"`
	Active         bool        `gorm:"not null;default:true;index"`
	DeactivatedAt  *time.Time
	CommissionedAt time.Time `gorm:"not null"`
	UpdatedAt      time.Time
}

func (TruckDTO) TableName() string {
	return "trucks"
}

type CapacityDTO struct {
	WeightKg float64 `gorm:"not null"`
	VolumeM3 float64 `gorm:"not null"`
}

func fromDomain(t *truck.Truck) TruckDTO {
	return TruckDTO{
		ID:        t.ID().Bytes(),
		CarrierID: t.CarrierID().Bytes(),
		Plate:     t.Plate(),
		Mileage:   t.Mileage(),
		Capacity: CapacityDTO{
			WeightKg: t.Capacity().WeightKg(),
			VolumeM3: t.Capacity().VolumeM3(),
		},
		Active:         t.Active(),
		DeactivatedAt:  t.DeactivatedAt(),
		CommissionedAt: t.CommissionedAt(),
	}
}

func toDomain(dto TruckDTO) (*truck.Truck, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	capacity, err := kernel.NewDimensions(dto.Capacity.WeightKg, dto.Capacity.VolumeM3)
	if err != nil {
		return nil, err
	}

	return truck.RestoreTruck(
		id,
		carrierID,
		dto.Plate,
		dto.Mileage,
		capacity,
		dto.Active,
		dto.DeactivatedAt,
		dto.CommissionedAt,
	)
}
