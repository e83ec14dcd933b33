package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrReleaseShipmentCommandIsNotConstructed = errors.New(
	"ReleaseShipmentCommand must be created via NewReleaseShipmentCommand constructor",
)

// ReleaseShipmentCommand hands a shipment back to the open market so the
// next carrier in the chain can claim it.
//
// Example:
//
//	cmd, err := NewReleaseShipmentCommand(carrierID, shipmentID)
//	if err != nil {
//	    return err
//	}
//	if err = NewReleaseShipmentCommandHandler(uowFactory).Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("hand off shipment: %w", err)
//	}
type ReleaseShipmentCommand struct {
	carrierID  kernel.UUID
	shipmentID kernel.UUID
	guard      guard.ConstructorGuard
}

// NewReleaseShipmentCommand validates both identifiers.
func NewReleaseShipmentCommand(carrierID, shipmentID kernel.UUID) (ReleaseShipmentCommand, error) {
	if err := errors.Join(carrierID.Validate(), shipmentID.Validate()); err != nil {
		return ReleaseShipmentCommand{}, err
	}
	return ReleaseShipmentCommand{carrierID: carrierID, shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReleaseShipmentCommand) Validate() error {
	return c.guard.Validate(ErrReleaseShipmentCommandIsNotConstructed)
}

// CarrierID is the carrier giving the shipment up.
func (c ReleaseShipmentCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c ReleaseShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}
