package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrUpdateShipmentStatusCommandIsNotConstructed = errors.New(
	"UpdateShipmentStatusCommand must be created via NewUpdateShipmentStatusCommand constructor",
)

// UpdateShipmentStatusCommand sets a shipment's status explicitly. Moving
// into a closed status delivers the shipment's open leg.
type UpdateShipmentStatusCommand struct {
	carrierID  kernel.UUID
	shipmentID kernel.UUID
	statusID   kernel.UUID
	guard      guard.ConstructorGuard
}

func NewUpdateShipmentStatusCommand(carrierID, shipmentID, statusID kernel.UUID) (UpdateShipmentStatusCommand, error) {
	if err := errors.Join(carrierID.Validate(), shipmentID.Validate(), statusID.Validate()); err != nil {
		return UpdateShipmentStatusCommand{}, err
	}
	return UpdateShipmentStatusCommand{
		carrierID:  carrierID,
		shipmentID: shipmentID,
		statusID:   statusID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateShipmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentStatusCommandIsNotConstructed)
}

func (c UpdateShipmentStatusCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c UpdateShipmentStatusCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c UpdateShipmentStatusCommand) StatusID() kernel.UUID {
	return c.statusID
}
