package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrSetLegCoordinatesCommandIsNotConstructed = errors.New(
	"SetLegCoordinatesCommand must be created via NewSetLegCoordinatesCommand constructor",
)

// GeocodedAddress carries the geocoder's answer for one side of a leg.
// Text is the address that was geocoded.
type GeocodedAddress struct {
	Text        string
	Coordinates *kernel.Coordinates
}

// SetLegCoordinatesCommand stores geocoding results on a leg.
type SetLegCoordinatesCommand struct {
	legID    kernel.UUID
	sender   GeocodedAddress
	receiver GeocodedAddress
	guard    guard.ConstructorGuard
}

// NewSetLegCoordinatesCommand requires coordinates for at least one side.
// Each side carries the address text it was looked up for.
func NewSetLegCoordinatesCommand(legID kernel.UUID, sender, receiver GeocodedAddress) (SetLegCoordinatesCommand, error) {
	if err := legID.Validate(); err != nil {
		return SetLegCoordinatesCommand{}, err
	}
	if sender.Coordinates == nil && receiver.Coordinates == nil {
		return SetLegCoordinatesCommand{}, errs.NewValueIsRequiredError("coordinates")
	}
	return SetLegCoordinatesCommand{legID: legID, sender: sender, receiver: receiver, guard: guard.NewConstructorGuard()}, nil
}

func (c SetLegCoordinatesCommand) Validate() error {
	return c.guard.Validate(ErrSetLegCoordinatesCommandIsNotConstructed)
}

func (c SetLegCoordinatesCommand) LegID() kernel.UUID {
	return c.legID
}

func (c SetLegCoordinatesCommand) Sender() GeocodedAddress {
	return c.sender
}

func (c SetLegCoordinatesCommand) Receiver() GeocodedAddress {
	return c.receiver
}
