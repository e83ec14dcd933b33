package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery reads one delivery of a carrier with its legs.
type GetDeliveryQuery struct {
	carrierID  kernel.UUID
	deliveryID kernel.UUID
	guard      guard.ConstructorGuard
}

// NewGetDeliveryQuery scopes the read to carrierID. Another carrier's
// delivery reads as not found.
func NewGetDeliveryQuery(carrierID, deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	if err := errors.Join(carrierID.Validate(), deliveryID.Validate()); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{carrierID: carrierID, deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

func (q GetDeliveryQuery) CarrierID() kernel.UUID {
	return q.carrierID
}

func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// LegView is one ledger entry. FailureReason is empty unless Outcome is
// failed.
type LegView struct {
	ID              kernel.UUID
	ShipmentID      kernel.UUID
	SenderAddress   string
	ReceiverAddress string
	Outcome         string
	FailureReason   string
	LoadedAt        *time.Time
	DeliveredAt     *time.Time
}

// GetDeliveryQueryResponse is the delivery read model. Odometer and
// FinishedAt are set once the delivery is completed; FinishedAt is also set
// on cancel.
type GetDeliveryQueryResponse struct {
	ID         kernel.UUID
	CarrierID  kernel.UUID
	TruckID    kernel.UUID
	DriverName string
	State      string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Odometer   *int
	Legs       []LegView
}
