package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand asks to cancel a scheduled or in-progress delivery
// of a carrier. Pending legs fail with delivery.CancelledLegReason and their
// shipments go back to the carrier without a truck.
//
// Example:
//
//	cmd, err := NewCancelDeliveryCommand(carrierID, deliveryID)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("cancel delivery: %w", err)
//	}
type CancelDeliveryCommand struct {
	carrierID  kernel.UUID
	deliveryID kernel.UUID
	guard      guard.ConstructorGuard
}

// NewCancelDeliveryCommand validates both identifiers.
func NewCancelDeliveryCommand(carrierID, deliveryID kernel.UUID) (CancelDeliveryCommand, error) {
	if err := errors.Join(carrierID.Validate(), deliveryID.Validate()); err != nil {
		return CancelDeliveryCommand{}, err
	}
	return CancelDeliveryCommand{carrierID: carrierID, deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrCancelDeliveryCommandIsNotConstructed for a zero value.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

func (c CancelDeliveryCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c CancelDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}
