package commands

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRegisterTruckCommandIsNotConstructed = errors.New(
	"RegisterTruckCommand must be created via NewRegisterTruckCommand constructor",
)

// RegisterTruckCommand describes a truck joining a carrier's fleet.
//
// Example:
//
//	cmd, err := NewRegisterTruckCommand(
//	    kernel.NewUUID(), carrierID,
//	    "FR-204", 0,
//	    12000, 40,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid truck: %w", err)
//	}
type RegisterTruckCommand struct {
	truckID   kernel.UUID
	carrierID kernel.UUID
	plate     string
	mileage   int
	capacity  kernel.Dimensions
	guard     guard.ConstructorGuard
}

// NewRegisterTruckCommand validates the identifiers, the plate and the
// starting mileage. maxWeightKg and maxVolumeM3 form the truck's capacity
// and must both be positive.
func NewRegisterTruckCommand(
	truckID, carrierID kernel.UUID,
	plate string,
	mileage int,
	maxWeightKg, maxVolumeM3 float64,
) (RegisterTruckCommand, error) {
	if err := errors.Join(truckID.Validate(), carrierID.Validate()); err != nil {
		return RegisterTruckCommand{}, err
	}
	if strings.TrimSpace(plate) == "" {
		return RegisterTruckCommand{}, errs.NewValueIsRequiredError("plate")
	}
	if mileage < 0 {
		return RegisterTruckCommand{}, errs.NewValueIsInvalidErrorWithCause("mileage", fmt.Errorf("%d is negative", mileage))
	}
	capacity, err := kernel.NewDimensions(maxWeightKg, maxVolumeM3)
	if err != nil {
		return RegisterTruckCommand{}, err
	}

	return RegisterTruckCommand{
		truckID:   truckID,
		carrierID: carrierID,
		plate:     plate,
		mileage:   mileage,
		capacity:  capacity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrRegisterTruckCommandIsNotConstructed for a zero value.
func (c RegisterTruckCommand) Validate() error {
	return c.guard.Validate(ErrRegisterTruckCommandIsNotConstructed)
}

func (c RegisterTruckCommand) TruckID() kernel.UUID {
	return c.truckID
}

func (c RegisterTruckCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c RegisterTruckCommand) Plate() string {
	return c.plate
}

// Mileage returns the odometer reading at registration.
func (c RegisterTruckCommand) Mileage() int {
	return c.mileage
}

func (c RegisterTruckCommand) Capacity() kernel.Dimensions {
	return c.capacity
}
