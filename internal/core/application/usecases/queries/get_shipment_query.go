package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery reads one shipment by id.
type GetShipmentQuery struct {
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// ShipmentStatusView exposes the status flags callers use for their own
// authorization decisions.
type ShipmentStatusView struct {
	ID                 kernel.UUID
	Name               string
	LockedForCustomers bool
	Closed             bool
}

// GetShipmentQueryResponse is the shipment read model. Status is nil for a
// shipment without a status.
type GetShipmentQueryResponse struct {
	ID              kernel.UUID
	SenderName      string
	SenderAddress   string
	ReceiverName    string
	ReceiverAddress string
	WeightKg        float64
	VolumeM3        float64
	DeliverBy       time.Time
	CarrierID       *kernel.UUID
	TruckID         *kernel.UUID
	Status          *ShipmentStatusView
}
