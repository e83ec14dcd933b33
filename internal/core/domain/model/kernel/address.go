package kernel

import (
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a free-text postal address. Coordinates are attached later by
// the geocoding collaborator and are nil until then.
type Address struct { //nolint:recvcheck //using for validation
	text        string
	coordinates *Coordinates
	guard       guard.ConstructorGuard
}

// NewAddress trims text and rejects it when empty. The address starts
// without coordinates.
func NewAddress(text string) (Address, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	return Address{text: text, guard: guard.NewConstructorGuard()}, nil
}

// RestoreAddress rebuilds an address together with previously geocoded coordinates.
func RestoreAddress(text string, coordinates *Coordinates) (Address, error) {
	a, err := NewAddress(text)
	if err != nil {
		return Address{}, err
	}
	a.coordinates = coordinates
	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Text() string {
	return a.text
}

func (a Address) Coordinates() *Coordinates {
	return a.coordinates
}

// WithCoordinates returns a copy of the address carrying c.
func (a Address) WithCoordinates(c Coordinates) Address {
	a.coordinates = &c
	return a
}

// SameText reports whether both addresses denote the same place textually.
func (a Address) SameText(other Address) bool {
	return strings.EqualFold(a.text, other.text)
}

func (a Address) String() string {
	return a.text
}
