// Package queries contains read operations. Handlers query the database
// directly and return read models shaped for the HTTP layer and workers.
package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetCarrierRatingQueryIsNotConstructed = errors.New(
	"GetCarrierRatingQuery must be created via NewGetCarrierRatingQuery constructor",
)

// GetCarrierRatingQuery reads a carrier's rating aggregate.
type GetCarrierRatingQuery struct {
	carrierID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetCarrierRatingQuery(carrierID kernel.UUID) (GetCarrierRatingQuery, error) {
	if err := carrierID.Validate(); err != nil {
		return GetCarrierRatingQuery{}, err
	}
	return GetCarrierRatingQuery{carrierID: carrierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCarrierRatingQuery) Validate() error {
	return q.guard.Validate(ErrGetCarrierRatingQueryIsNotConstructed)
}

func (q GetCarrierRatingQuery) CarrierID() kernel.UUID {
	return q.carrierID
}

// GetCarrierRatingQueryResponse is the carrier's rating aggregate. Average
// is zero while Count is zero.
type GetCarrierRatingQueryResponse struct {
	CarrierID kernel.UUID
	Name      string
	Average   float64
	Count     int
}
