package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrDeliverShipmentCommandIsNotConstructed = errors.New(
	"DeliverShipmentCommand must be created via NewDeliverShipmentCommand constructor",
)

// DeliverShipmentCommand applies the carrier's delivered rule to a shipment.
type DeliverShipmentCommand struct {
	carrierID  kernel.UUID
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewDeliverShipmentCommand(carrierID, shipmentID kernel.UUID) (DeliverShipmentCommand, error) {
	if err := errors.Join(carrierID.Validate(), shipmentID.Validate()); err != nil {
		return DeliverShipmentCommand{}, err
	}
	return DeliverShipmentCommand{carrierID: carrierID, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeliverShipmentCommand) Validate() error {
	return c.guard.Validate(ErrDeliverShipmentCommandIsNotConstructed)
}

func (c DeliverShipmentCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c DeliverShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
