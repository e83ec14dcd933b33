package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrEvaluateMaintenanceCommandIsNotConstructed = errors.New(
	"EvaluateMaintenanceCommand must be created via NewEvaluateMaintenanceCommand constructor",
)

// EvaluateMaintenanceCommand re-checks one truck against the maintenance
// policy outside of a Close, e.g. after an incident form.
type EvaluateMaintenanceCommand struct {
	truckID kernel.UUID
	guard   guard.ConstructorGuard
}

// NewEvaluateMaintenanceCommand is built by the maintenance sweep job for
// each active truck.
func NewEvaluateMaintenanceCommand(truckID kernel.UUID) (EvaluateMaintenanceCommand, error) {
	if err := truckID.Validate(); err != nil {
		return EvaluateMaintenanceCommand{}, err
	}
	return EvaluateMaintenanceCommand{truckID: truckID, guard: guard.NewConstructorGuard()}, nil
}

func (c EvaluateMaintenanceCommand) Validate() error {
	return c.guard.Validate(ErrEvaluateMaintenanceCommandIsNotConstructed)
}

func (c EvaluateMaintenanceCommand) TruckID() kernel.UUID {
	return c.truckID
}
