package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const MaxOverdueShipments = 500

var ErrListOverdueShipmentsQueryIsNotConstructed = errors.New(
	"ListOverdueShipmentsQuery must be created via NewListOverdueShipmentsQuery constructor",
)

// ListOverdueShipmentsQuery lists claimed shipments whose deadline passed
// before now and whose status is not closed.
type ListOverdueShipmentsQuery struct {
	now   time.Time
	limit int
	guard guard.ConstructorGuard
}

// NewListOverdueShipmentsQuery stores now in UTC. limit must lie in
// [1, MaxOverdueShipments].
func NewListOverdueShipmentsQuery(now time.Time, limit int) (ListOverdueShipmentsQuery, error) {
	if limit <= 0 || limit > MaxOverdueShipments {
		return ListOverdueShipmentsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxOverdueShipments)
	}
	return ListOverdueShipmentsQuery{now: now.UTC(), limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOverdueShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrListOverdueShipmentsQueryIsNotConstructed)
}

func (q ListOverdueShipmentsQuery) Now() time.Time {
	return q.now
}

func (q ListOverdueShipmentsQuery) Limit() int {
	return q.limit
}

type OverdueShipmentView struct {
	ShipmentID kernel.UUID
	CarrierID  kernel.UUID
	TruckID    *kernel.UUID
	DeliverBy  time.Time
	StatusName string
}
