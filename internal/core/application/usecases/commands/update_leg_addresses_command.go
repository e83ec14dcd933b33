package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrUpdateLegAddressesCommandIsNotConstructed = errors.New(
	"UpdateLegAddressesCommand must be created via NewUpdateLegAddressesCommand constructor",
)

// UpdateLegAddressesCommand replaces the sender and receiver addresses of a
// pending leg. Both addresses are replaced together.
type UpdateLegAddressesCommand struct {
	carrierID kernel.UUID
	legID     kernel.UUID
	sender    kernel.Address
	receiver  kernel.Address
	guard     guard.ConstructorGuard
}

// NewUpdateLegAddressesCommand parses both addresses and reports every
// invalid argument at once.
func NewUpdateLegAddressesCommand(carrierID, legID kernel.UUID, sender, receiver string) (UpdateLegAddressesCommand, error) {
	senderAddr, senderErr := kernel.NewAddress(sender)
	receiverAddr, receiverErr := kernel.NewAddress(receiver)
	if err := errors.Join(carrierID.Validate(), legID.Validate(), senderErr, receiverErr); err != nil {
		return UpdateLegAddressesCommand{}, err
	}
	return UpdateLegAddressesCommand{
		carrierID: carrierID,
		legID:     legID,
		sender:    senderAddr,
		receiver:  receiverAddr,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLegAddressesCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLegAddressesCommandIsNotConstructed)
}

func (c UpdateLegAddressesCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c UpdateLegAddressesCommand) LegID() kernel.UUID {
	return c.legID
}

func (c UpdateLegAddressesCommand) Sender() kernel.Address {
	return c.sender
}

func (c UpdateLegAddressesCommand) Receiver() kernel.Address {
	return c.receiver
}
