package shipment

import (
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Party is the sender or the receiver of a shipment.
type Party struct {
	name    string
	address kernel.Address
}

// NewParty trims name and requires it together with a constructed address.
func NewParty(name string, address kernel.Address) (Party, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Party{}, errs.NewValueIsRequiredError("party name")
	}
	if err := address.Validate(); err != nil {
		return Party{}, err
	}
	return Party{name: name, address: address}, nil
}

func (p Party) Name() string {
	return p.name
}

func (p Party) Address() kernel.Address {
	return p.address
}
