package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateCarrierCommandIsNotConstructed = errors.New(
	"CreateCarrierCommand must be created via NewCreateCarrierCommand constructor",
)

// CreateCarrierCommand registers a new tenant company.
type CreateCarrierCommand struct {
	carrierID kernel.UUID
	name      string
	guard     guard.ConstructorGuard
}

// NewCreateCarrierCommand trims name before checking it.
func NewCreateCarrierCommand(carrierID kernel.UUID, name string) (CreateCarrierCommand, error) {
	if err := carrierID.Validate(); err != nil {
		return CreateCarrierCommand{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateCarrierCommand{}, errs.NewValueIsRequiredError("name")
	}
	return CreateCarrierCommand{carrierID: carrierID, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateCarrierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCarrierCommandIsNotConstructed)
}

func (c CreateCarrierCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c CreateCarrierCommand) Name() string {
	return c.name
}
