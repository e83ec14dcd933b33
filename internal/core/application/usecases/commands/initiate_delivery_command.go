package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrInitiateDeliveryCommandIsNotConstructed = errors.New(
	"InitiateDeliveryCommand must be created via NewInitiateDeliveryCommand constructor",
)

// InitiateDeliveryCommand dispatches a truck: its scheduled delivery goes
// in_progress and every shipment on board gets the dispatched status.
//
// Example:
//
//	cmd, err := NewInitiateDeliveryCommand(carrierID, truckID, "Dana Reyes")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	for _, f := range result.Failures {
//	    // f.ShipmentID left with its previous status, see f.Err
//	}
type InitiateDeliveryCommand struct {
	carrierID  kernel.UUID
	truckID    kernel.UUID
	driverName string
	guard      guard.ConstructorGuard
}

// NewInitiateDeliveryCommand trims driverName. The name is used only when
// the truck has no scheduled delivery and Initiate has to create one.
func NewInitiateDeliveryCommand(carrierID, truckID kernel.UUID, driverName string) (InitiateDeliveryCommand, error) {
	if err := errors.Join(carrierID.Validate(), truckID.Validate()); err != nil {
		return InitiateDeliveryCommand{}, err
	}
	return InitiateDeliveryCommand{
		carrierID:  carrierID,
		truckID:    truckID,
		driverName: strings.TrimSpace(driverName),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c InitiateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrInitiateDeliveryCommandIsNotConstructed)
}

func (c InitiateDeliveryCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c InitiateDeliveryCommand) TruckID() kernel.UUID {
	return c.truckID
}

func (c InitiateDeliveryCommand) DriverName() string {
	return c.driverName
}
