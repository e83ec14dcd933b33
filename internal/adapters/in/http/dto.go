package http

import (
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/services"

	"github.com/google/uuid"
)

// Wire types of the /api/v1 surface. JSON names follow api/openapi.json.

// Created is the body of every 201 response.
type Created struct {
	ID uuid.UUID `json:"id"`
}

type NewCarrier struct {
	Name string `json:"name"`
}

type NewStatus struct {
	Name               string `json:"name"`
	LockedForCustomers bool   `json:"lockedForCustomers"`
	Closed             bool   `json:"closed"`
}

type Rule struct {
	CarrierID uuid.UUID  `json:"carrierId"`
	Event     string     `json:"event"`
	StatusID  *uuid.UUID `json:"statusId"`
}

// RuleBinding is the body of a rule PUT. A null statusId binds the event to
// no status change.
type RuleBinding struct {
	StatusID *uuid.UUID `json:"statusId"`
}

type CarrierRating struct {
	CarrierID uuid.UUID `json:"carrierId"`
	Name      string    `json:"name"`
	Average   float64   `json:"average"`
	Count     int       `json:"count"`
}

type NewTruck struct {
	Plate       string  `json:"plate"`
	Mileage     int     `json:"mileage"`
	MaxWeightKg float64 `json:"maxWeightKg"`
	MaxVolumeM3 float64 `json:"maxVolumeM3"`
}

type ScheduleRequest struct {
	ShipmentIDs []uuid.UUID `json:"shipmentIds"`
	DriverName  string      `json:"driverName"`
}

type ScheduleResult struct {
	DeliveryID uuid.UUID   `json:"deliveryId"`
	Created    bool        `json:"created"`
	Loaded     []uuid.UUID `json:"loaded"`
}

type InitiateRequest struct {
	DriverName string `json:"driverName"`
}

// ShipmentFailure carries the error text only; the error value stays on
// the server.
type ShipmentFailure struct {
	ShipmentID uuid.UUID `json:"shipmentId"`
	Message    string    `json:"message"`
}

type InitiateResult struct {
	DeliveryID uuid.UUID         `json:"deliveryId"`
	Dispatched []uuid.UUID       `json:"dispatched"`
	Failures   []ShipmentFailure `json:"failures"`
}

type NewForm struct {
	Kind    string `json:"kind"`
	Mileage int    `json:"mileage"`
	Notes   string `json:"notes"`
}

type Leg struct {
	ID              uuid.UUID  `json:"id"`
	ShipmentID      uuid.UUID  `json:"shipmentId"`
	SenderAddress   string     `json:"senderAddress"`
	ReceiverAddress string     `json:"receiverAddress"`
	Outcome         string     `json:"outcome"`
	FailureReason   string     `json:"failureReason,omitempty"`
	LoadedAt        *time.Time `json:"loadedAt"`
	DeliveredAt     *time.Time `json:"deliveredAt"`
}

type Delivery struct {
	ID         uuid.UUID  `json:"id"`
	CarrierID  uuid.UUID  `json:"carrierId"`
	TruckID    uuid.UUID  `json:"truckId"`
	DriverName string     `json:"driverName"`
	State      string     `json:"state"`
	StartedAt  *time.Time `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt"`
	Odometer   *int       `json:"odometer"`
	Legs       []Leg      `json:"legs"`
}

type CloseRequest struct {
	Odometer int `json:"odometer"`
}

type CloseResult struct {
	Mileage        int  `json:"mileage"`
	MaintenanceDue bool `json:"maintenanceDue"`
}

type StatusUpdate struct {
	StatusID uuid.UUID `json:"statusId"`
}

type Status struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	LockedForCustomers bool      `json:"lockedForCustomers"`
	Closed             bool      `json:"closed"`
}

type StatusChange struct {
	Status        *Status `json:"status"`
	Changed       bool    `json:"changed"`
	EnteredClosed bool    `json:"enteredClosed"`
}

type FailRequest struct {
	Reason string `json:"reason"`
}

type LegAddresses struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type NewShipment struct {
	WeightKg  float64   `json:"weightKg"`
	VolumeM3  float64   `json:"volumeM3"`
	Sender    Party     `json:"sender"`
	Receiver  Party     `json:"receiver"`
	DeliverBy time.Time `json:"deliverBy"`
}

type Shipment struct {
	ID        uuid.UUID  `json:"id"`
	Sender    Party      `json:"sender"`
	Receiver  Party      `json:"receiver"`
	WeightKg  float64    `json:"weightKg"`
	VolumeM3  float64    `json:"volumeM3"`
	DeliverBy time.Time  `json:"deliverBy"`
	CarrierID *uuid.UUID `json:"carrierId"`
	TruckID   *uuid.UUID `json:"truckId"`
	Status    *Status    `json:"status"`
}

type NewRating struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// RatingUpdate keeps the stored comment when comment is absent.
type RatingUpdate struct {
	Stars   int     `json:"stars"`
	Comment *string `json:"comment"`
}

func toStatusChange(change services.StatusChange) StatusChange {
	return StatusChange{
		Status:        toStatus(change.Status),
		Changed:       change.Changed,
		EnteredClosed: change.EnteredClosed,
	}
}

// toStatus maps a nil status to a null JSON status.
func toStatus(s *carrier.Status) *Status {
	if s == nil {
		return nil
	}
	return &Status{
		ID:                 s.ID().Bytes(),
		Name:               s.Name(),
		LockedForCustomers: s.LockedForCustomers(),
		Closed:             s.Closed(),
	}
}

func toDelivery(d queries.GetDeliveryQueryResponse) Delivery {
	legs := make([]Leg, len(d.Legs))
	for i, leg := range d.Legs {
		legs[i] = Leg{
			ID:              leg.ID.Bytes(),
			ShipmentID:      leg.ShipmentID.Bytes(),
			SenderAddress:   leg.SenderAddress,
			ReceiverAddress: leg.ReceiverAddress,
			Outcome:         leg.Outcome,
			FailureReason:   leg.FailureReason,
			LoadedAt:        leg.LoadedAt,
			DeliveredAt:     leg.DeliveredAt,
		}
	}
	return Delivery{
		ID:         d.ID.Bytes(),
		CarrierID:  d.CarrierID.Bytes(),
		TruckID:    d.TruckID.Bytes(),
		DriverName: d.DriverName,
		State:      d.State,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Odometer:   d.Odometer,
		Legs:       legs,
	}
}

func toShipment(s queries.GetShipmentQueryResponse) Shipment {
	shipment := Shipment{
		ID:        s.ID.Bytes(),
		Sender:    Party{Name: s.SenderName, Address: s.SenderAddress},
		Receiver:  Party{Name: s.ReceiverName, Address: s.ReceiverAddress},
		WeightKg:  s.WeightKg,
		VolumeM3:  s.VolumeM3,
		DeliverBy: s.DeliverBy,
	}
	if s.CarrierID != nil {
		id := s.CarrierID.Bytes()
		shipment.CarrierID = &id
	}
	if s.TruckID != nil {
		id := s.TruckID.Bytes()
		shipment.TruckID = &id
	}
	if s.Status != nil {
		shipment.Status = &Status{
			ID:                 s.Status.ID.Bytes(),
			Name:               s.Status.Name,
			LockedForCustomers: s.Status.LockedForCustomers,
			Closed:             s.Status.Closed,
		}
	}
	return shipment
}
