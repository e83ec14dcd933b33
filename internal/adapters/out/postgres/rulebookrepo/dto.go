// Package rulebookrepo persists a carrier's Status Catalog and its
// event-to-status rules.
package rulebookrepo

import (
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type StatusDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarrierID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_statuses_carrier_name"`
	Name               string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_statuses_carrier_name"`
	LockedForCustomers bool      `gorm:"not null;default:false"`
	Closed             bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}

func (StatusDTO) TableName() string {
	return "statuses"
}

// RuleDTO is keyed by (carrier_id, event). A NULL status_id is an explicit
// "no status change" binding.
type RuleDTO struct {
	CarrierID uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Event     string     `gorm:"type:varchar(32);primaryKey"`
	StatusID  *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt time.Time
}

func (RuleDTO) TableName() string {
	return "rules"
}

func statusFromDomain(s *carrier.Status) StatusDTO {
	return StatusDTO{
		ID:                 s.ID().Bytes(),
		CarrierID:          s.CarrierID().Bytes(),
		Name:               s.Name(),
		LockedForCustomers: s.LockedForCustomers(),
		Closed:             s.Closed(),
	}
}

func statusToDomain(dto StatusDTO) (*carrier.Status, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	return carrier.NewStatus(id, carrierID, dto.Name, dto.LockedForCustomers, dto.Closed)
}

func ruleToDomain(dto RuleDTO) (carrier.Rule, error) {
	event, err := carrier.ParseEvent(dto.Event)
	if err != nil {
		return carrier.Rule{}, err
	}
	statusID, err := kernel.OptionalUUIDFromBytes(dto.StatusID)
	if err != nil {
		return carrier.Rule{}, err
	}
	return carrier.Rule{Event: event, StatusID: statusID}, nil
}
