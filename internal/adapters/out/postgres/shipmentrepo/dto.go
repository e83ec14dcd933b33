// Package shipmentrepo persists shipment aggregates.
package shipmentrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

type ShipmentDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WeightKg  float64    `gorm:"not null"`
	VolumeM3  float64    `gorm:"not null"`
	Sender    PartyDTO   `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver  PartyDTO   `gorm:"embedded;embeddedPrefix:receiver_"`
	DeliverBy time.Time  `gorm:"not null;index"`
	CarrierID *uuid.UUID `gorm:"type:uuid;index"`
	StatusID  *uuid.UUID `gorm:"type:uuid"`
	TruckID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// PartyDTO is a sender or receiver with the optionally geocoded address.
type PartyDTO struct {
	Name      string `gorm:"type:varchar(255);not null"`
	Address   string `gorm:"type:text;not null"`
	Latitude  *float64
	Longitude *float64
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:        s.ID().Bytes(),
		WeightKg:  s.Dimensions().WeightKg(),
		VolumeM3:  s.Dimensions().VolumeM3(),
		Sender:    partyFromDomain(s.Sender()),
		Receiver:  partyFromDomain(s.Receiver()),
		DeliverBy: s.DeliverBy(),
		CarrierID: kernel.OptionalBytes(s.CarrierID()),
		StatusID:  kernel.OptionalBytes(s.StatusID()),
		TruckID:   kernel.OptionalBytes(s.TruckID()),
	}
}

func partyFromDomain(p shipment.Party) PartyDTO {
	dto := PartyDTO{Name: p.Name(), Address: p.Address().Text()}
	if c := p.Address().Coordinates(); c != nil {
		lat, lon := c.Latitude(), c.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lon
	}
	return dto
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	dimensions, err := kernel.NewDimensions(dto.WeightKg, dto.VolumeM3)
	if err != nil {
		return nil, err
	}
	sender, err := partyToDomain(dto.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := partyToDomain(dto.Receiver)
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.OptionalUUIDFromBytes(dto.CarrierID)
	if err != nil {
		return nil, err
	}
	statusID, err := kernel.OptionalUUIDFromBytes(dto.StatusID)
	if err != nil {
		return nil, err
	}
	truckID, err := kernel.OptionalUUIDFromBytes(dto.TruckID)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreShipment(id, dimensions, sender, receiver, dto.DeliverBy, carrierID, statusID, truckID)
}

func partyToDomain(dto PartyDTO) (shipment.Party, error) {
	coordinates, err := CoordinatesToDomain(dto.Latitude, dto.Longitude)
	if err != nil {
		return shipment.Party{}, err
	}
	address, err := kernel.RestoreAddress(dto.Address, coordinates)
	if err != nil {
		return shipment.Party{}, err
	}
	return shipment.NewParty(dto.Name, address)
}

// CoordinatesToDomain rebuilds coordinates stored as two nullable columns.
func CoordinatesToDomain(latitude, longitude *float64) (*kernel.Coordinates, error) {
	if latitude == nil || longitude == nil {
		return nil, nil
	}
	c, err := kernel.NewCoordinates(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
