// Package deliveryrepo persists deliveries and their legs as one aggregate.
package deliveryrepo

import (
	"time"

	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO maps the deliveries table. Partial unique indexes created in
// Migrate allow one scheduled and one in_progress delivery per truck.
type DeliveryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarrierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TruckID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverName string    `gorm:"type:varchar(255)"`
	State      string    `gorm:"type:varchar(16);not null;index"`
	StartedAt  *time.Time
	FinishedAt *time.Time
	Odometer   *int
	Legs       []LegDTO  `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LegDTO maps the legs table. Legs are never deleted; a shipment has at
// most one pending leg, enforced by ux_legs_shipment_pending.
type LegDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DeliveryID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShipmentID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Sender        AddressDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver      AddressDTO `gorm:"embedded;embeddedPrefix:receiver_"`
	LoadedAt      *time.Time
	DeliveredAt   *time.Time
	Outcome       string    `gorm:"type:varchar(16);not null"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (LegDTO) TableName() string {
	return "legs"
}

// AddressDTO stores an address with its optional geocode. Both coordinates
// are NULL until the geocoding worker fills them.
type AddressDTO struct {
	Address   string `gorm:"type:text;not null"`
	Latitude  *float64
	Longitude *float64
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	legs := make([]LegDTO, 0, len(d.Legs()))
	for _, l := range d.Legs() {
		legs = append(legs, legFromDomain(l))
	}

	return DeliveryDTO{
		ID:         d.ID().Bytes(),
		CarrierID:  d.CarrierID().Bytes(),
		TruckID:    d.TruckID().Bytes(),
		DriverName: d.DriverName(),
		State:      string(d.State()),
		StartedAt:  d.StartedAt(),
		FinishedAt: d.FinishedAt(),
		Odometer:   d.Odometer(),
		Legs:       legs,
		CreatedAt:  d.CreatedAt(),
	}
}

func legFromDomain(l *delivery.Leg) LegDTO {
	return LegDTO{
		ID:            l.ID().Bytes(),
		DeliveryID:    l.DeliveryID().Bytes(),
		ShipmentID:    l.ShipmentID().Bytes(),
		Sender:        addressFromDomain(l.Sender()),
		Receiver:      addressFromDomain(l.Receiver()),
		LoadedAt:      l.LoadedAt(),
		DeliveredAt:   l.DeliveredAt(),
		Outcome:       string(l.Outcome()),
		FailureReason: l.FailureReason(),
		CreatedAt:     l.CreatedAt(),
	}
}

func addressFromDomain(a kernel.Address) AddressDTO {
	dto := AddressDTO{Address: a.Text()}
	if c := a.Coordinates(); c != nil {
		lat, lon := c.Latitude(), c.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lon
	}
	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	truckID, err := kernel.UUIDFromBytes(dto.TruckID[:])
	if err != nil {
		return nil, err
	}

	legs := make([]*delivery.Leg, 0, len(dto.Legs))
	for _, legDTO := range dto.Legs {
		leg, legErr := legToDomain(legDTO)
		if legErr != nil {
			return nil, legErr
		}
		legs = append(legs, leg)
	}

	return delivery.RestoreDelivery(
		id,
		carrierID,
		truckID,
		dto.DriverName,
		delivery.State(dto.State),
		dto.StartedAt,
		dto.FinishedAt,
		dto.Odometer,
		legs,
		dto.CreatedAt,
	)
}

func legToDomain(dto LegDTO) (*delivery.Leg, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	sender, err := addressToDomain(dto.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := addressToDomain(dto.Receiver)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreLeg(
		id,
		deliveryID,
		shipmentID,
		sender,
		receiver,
		dto.LoadedAt,
		dto.DeliveredAt,
		delivery.Outcome(dto.Outcome),
		dto.FailureReason,
		dto.CreatedAt,
	)
}

func addressToDomain(dto AddressDTO) (kernel.Address, error) {
	coordinates, err := shipmentrepo.CoordinatesToDomain(dto.Latitude, dto.Longitude)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.RestoreAddress(dto.Address, coordinates)
}
