// Package formrepo persists maintenance forms. Exactly one of truck_id and
// delivery_id is set, matching the form's subject.
package formrepo

import (
	"fmt"
	"time"

	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type FormDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind        string     `gorm:"type:varchar(16);not null"`
	TruckID     *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryID  *uuid.UUID `gorm:"type:uuid;index"`
	Mileage     int        `gorm:"type:int;not null"`
	Notes       string     `gorm:"type:text"`
	SubmittedAt time.Time  `gorm:"not null;index"`
}

func (FormDTO) TableName() string {
	return "forms"
}

func fromDomain(f *form.Form) FormDTO {
	dto := FormDTO{
		ID:          f.ID().Bytes(),
		Kind:        string(f.Kind()),
		Mileage:     f.Mileage(),
		Notes:       f.Notes(),
		SubmittedAt: f.SubmittedAt(),
	}

	raw := f.Subject().ID().Bytes()
	switch f.Subject().(type) {
	case form.TruckSubject:
		dto.TruckID = &raw
	case form.DeliverySubject:
		dto.DeliveryID = &raw
	}
	return dto
}

func toDomain(dto FormDTO) (*form.Form, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var subject form.Subject
	switch {
	case dto.TruckID != nil:
		truckID, idErr := kernel.UUIDFromBytes(dto.TruckID[:])
		if idErr != nil {
			return nil, idErr
		}
		subject = form.TruckSubject{TruckID: truckID}
	case dto.DeliveryID != nil:
		deliveryID, idErr := kernel.UUIDFromBytes(dto.DeliveryID[:])
		if idErr != nil {
			return nil, idErr
		}
		subject = form.DeliverySubject{DeliveryID: deliveryID}
	default:
		return nil, fmt.Errorf("form %s has no subject", dto.ID)
	}

	return form.NewForm(id, form.Kind(dto.Kind), subject, dto.Mileage, dto.Notes, dto.SubmittedAt)
}
