package commands

import (
	"errors"
	"slices"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrScheduleDeliveryCommandIsNotConstructed = errors.New(
	"ScheduleDeliveryCommand must be created via NewScheduleDeliveryCommand constructor",
)

// ScheduleDeliveryCommand loads shipments onto a truck's scheduled delivery.
//
// Example:
//
//	cmd, err := NewScheduleDeliveryCommand(carrierID, truckID, []kernel.UUID{s1, s2}, "Dana")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ScheduleDeliveryCommand struct {
	carrierID   kernel.UUID
	truckID     kernel.UUID
	shipmentIDs []kernel.UUID
	driverName  string
	guard       guard.ConstructorGuard
}

// NewScheduleDeliveryCommand validates the ids and drops duplicate shipments.
// driverName is only used when a new delivery has to be created.
func NewScheduleDeliveryCommand(
	carrierID, truckID kernel.UUID,
	shipmentIDs []kernel.UUID,
	driverName string,
) (ScheduleDeliveryCommand, error) {
	if err := errors.Join(carrierID.Validate(), truckID.Validate()); err != nil {
		return ScheduleDeliveryCommand{}, err
	}
	if len(shipmentIDs) == 0 {
		return ScheduleDeliveryCommand{}, errs.NewValueIsRequiredError("shipment ids")
	}

	unique := make([]kernel.UUID, 0, len(shipmentIDs))
	for _, id := range shipmentIDs {
		if err := id.Validate(); err != nil {
			return ScheduleDeliveryCommand{}, err
		}
		if !slices.ContainsFunc(unique, id.IsEqual) {
			unique = append(unique, id)
		}
	}

	return ScheduleDeliveryCommand{
		carrierID:   carrierID,
		truckID:     truckID,
		shipmentIDs: unique,
		driverName:  strings.TrimSpace(driverName),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ScheduleDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrScheduleDeliveryCommandIsNotConstructed)
}

func (c ScheduleDeliveryCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c ScheduleDeliveryCommand) TruckID() kernel.UUID {
	return c.truckID
}

func (c ScheduleDeliveryCommand) ShipmentIDs() []kernel.UUID {
	return slices.Clone(c.shipmentIDs)
}

func (c ScheduleDeliveryCommand) DriverName() string {
	return c.driverName
}
