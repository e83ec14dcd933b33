package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand takes in a new, unclaimed shipment.
//
// Sender and receiver each need a name and an address. DeliverBy is the
// deadline against which overdue shipments are listed.
type CreateShipmentCommand struct {
	shipmentID kernel.UUID
	dimensions kernel.Dimensions
	sender     shipment.Party
	receiver   shipment.Party
	deliverBy  time.Time
	guard      guard.ConstructorGuard
}

// NewCreateShipmentCommand returns the first validation error it meets,
// checking the identifier, the deadline, the dimensions and then both
// parties.
func NewCreateShipmentCommand(
	shipmentID kernel.UUID,
	weightKg, volumeM3 float64,
	senderName, senderAddress string,
	receiverName, receiverAddress string,
	deliverBy time.Time,
) (CreateShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return CreateShipmentCommand{}, err
	}
	if deliverBy.IsZero() {
		return CreateShipmentCommand{}, errs.NewValueIsRequiredError("deliver_by")
	}

	dimensions, err := kernel.NewDimensions(weightKg, volumeM3)
	if err != nil {
		return CreateShipmentCommand{}, err
	}
	sender, err := newParty(senderName, senderAddress)
	if err != nil {
		return CreateShipmentCommand{}, err
	}
	receiver, err := newParty(receiverName, receiverAddress)
	if err != nil {
		return CreateShipmentCommand{}, err
	}

	return CreateShipmentCommand{
		shipmentID: shipmentID,
		dimensions: dimensions,
		sender:     sender,
		receiver:   receiver,
		deliverBy:  deliverBy,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

func (c CreateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c CreateShipmentCommand) Dimensions() kernel.Dimensions {
	return c.dimensions
}

func (c CreateShipmentCommand) Sender() shipment.Party {
	return c.sender
}

func (c CreateShipmentCommand) Receiver() shipment.Party {
	return c.receiver
}

func (c CreateShipmentCommand) DeliverBy() time.Time {
	return c.deliverBy
}

func newParty(name, address string) (shipment.Party, error) {
	addr, err := kernel.NewAddress(address)
	if err != nil {
		return shipment.Party{}, err
	}
	return shipment.NewParty(name, addr)
}
