package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrDefineStatusCommandIsNotConstructed = errors.New(
	"DefineStatusCommand must be created via NewDefineStatusCommand constructor",
)

// DefineStatusCommand adds a named status to a carrier's Status Catalog.
//
// Flags:
//   - lockedForCustomers: customers can no longer change a shipment in
//     this status
//   - closed: entering the status marks the shipment's open leg delivered
//
// Example:
//
//	cmd, err := NewDefineStatusCommand(carrierID, "Out for delivery", true, false)
//	if err != nil {
//	    return err
//	}
//	statusID, err := handler.Handle(ctx, cmd)
type DefineStatusCommand struct {
	carrierID          kernel.UUID
	name               string
	lockedForCustomers bool
	closed             bool
	guard              guard.ConstructorGuard
}

// NewDefineStatusCommand trims name and rejects it when empty.
func NewDefineStatusCommand(carrierID kernel.UUID, name string, lockedForCustomers, closed bool) (DefineStatusCommand, error) {
	if err := carrierID.Validate(); err != nil {
		return DefineStatusCommand{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return DefineStatusCommand{}, errs.NewValueIsRequiredError("name")
	}
	return DefineStatusCommand{
		carrierID:          carrierID,
		name:               name,
		lockedForCustomers: lockedForCustomers,
		closed:             closed,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

func (c DefineStatusCommand) Validate() error {
	return c.guard.Validate(ErrDefineStatusCommandIsNotConstructed)
}

func (c DefineStatusCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c DefineStatusCommand) Name() string {
	return c.name
}

func (c DefineStatusCommand) LockedForCustomers() bool {
	return c.lockedForCustomers
}

func (c DefineStatusCommand) Closed() bool {
	return c.closed
}
