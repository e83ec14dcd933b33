package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrClaimShipmentCommandIsNotConstructed = errors.New(
	"ClaimShipmentCommand must be created via NewClaimShipmentCommand constructor",
)

// ClaimShipmentCommand hands an unclaimed shipment to a carrier.
type ClaimShipmentCommand struct {
	carrierID  kernel.UUID
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewClaimShipmentCommand(carrierID, shipmentID kernel.UUID) (ClaimShipmentCommand, error) {
	if err := errors.Join(carrierID.Validate(), shipmentID.Validate()); err != nil {
		return ClaimShipmentCommand{}, err
	}
	return ClaimShipmentCommand{carrierID: carrierID, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (c ClaimShipmentCommand) Validate() error {
	return c.guard.Validate(ErrClaimShipmentCommandIsNotConstructed)
}

func (c ClaimShipmentCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c ClaimShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
