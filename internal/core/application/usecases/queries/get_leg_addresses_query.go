package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetLegAddressesQueryIsNotConstructed = errors.New(
	"GetLegAddressesQuery must be created via NewGetLegAddressesQuery constructor",
)

// GetLegAddressesQuery returns what the geocoding worker needs for a leg.
type GetLegAddressesQuery struct {
	legID kernel.UUID
	guard guard.ConstructorGuard
}

func NewGetLegAddressesQuery(legID kernel.UUID) (GetLegAddressesQuery, error) {
	if err := legID.Validate(); err != nil {
		return GetLegAddressesQuery{}, err
	}
	return GetLegAddressesQuery{legID: legID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLegAddressesQuery) Validate() error {
	return q.guard.Validate(ErrGetLegAddressesQueryIsNotConstructed)
}

func (q GetLegAddressesQuery) LegID() kernel.UUID {
	return q.legID
}

// GetLegAddressesQueryResponse flags a side as geocoded once it carries
// coordinates.
type GetLegAddressesQueryResponse struct {
	LegID            kernel.UUID
	SenderAddress    string
	SenderGeocoded   bool
	ReceiverAddress  string
	ReceiverGeocoded bool
}
