package commands

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCloseDeliveryCommandIsNotConstructed = errors.New(
	"CloseDeliveryCommand must be created via NewCloseDeliveryCommand constructor",
)

// CloseDeliveryCommand completes an in_progress delivery with the truck's
// closing odometer reading.
//
// Example:
//
//	cmd, err := NewCloseDeliveryCommand(carrierID, deliveryID, 184250)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("close delivery: %w", err)
//	}
//	if result.MaintenanceDue {
//	    // the truck was taken off the road
//	}
type CloseDeliveryCommand struct {
	carrierID  kernel.UUID
	deliveryID kernel.UUID
	odometer   int
	guard      guard.ConstructorGuard
}

// NewCloseDeliveryCommand requires a positive odometer. Whether it exceeds
// the truck's mileage is checked by the handler, which holds the truck lock.
func NewCloseDeliveryCommand(carrierID, deliveryID kernel.UUID, odometer int) (CloseDeliveryCommand, error) {
	if err := errors.Join(carrierID.Validate(), deliveryID.Validate()); err != nil {
		return CloseDeliveryCommand{}, err
	}
	if odometer <= 0 {
		return CloseDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("odometer",
			fmt.Errorf("%d is not greater than 0", odometer))
	}
	return CloseDeliveryCommand{
		carrierID:  carrierID,
		deliveryID: deliveryID,
		odometer:   odometer,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CloseDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCloseDeliveryCommandIsNotConstructed)
}

func (c CloseDeliveryCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c CloseDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c CloseDeliveryCommand) Odometer() int {
	return c.odometer
}
