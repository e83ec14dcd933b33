package queries

import (
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrResolveStatusQueryIsNotConstructed = errors.New(
	"ResolveStatusQuery must be created via NewResolveStatusQuery constructor",
)

// ResolveStatusQuery looks up the status a carrier's rule binds to an event.
type ResolveStatusQuery struct {
	carrierID kernel.UUID
	event     carrier.Event
	guard     guard.ConstructorGuard
}

// NewResolveStatusQuery accepts event names in any case, including the
// out_for_delivery alias.
func NewResolveStatusQuery(carrierID kernel.UUID, event string) (ResolveStatusQuery, error) {
	parsed, eventErr := carrier.ParseEvent(event)
	if err := errors.Join(carrierID.Validate(), eventErr); err != nil {
		return ResolveStatusQuery{}, err
	}
	return ResolveStatusQuery{carrierID: carrierID, event: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q ResolveStatusQuery) Validate() error {
	return q.guard.Validate(ErrResolveStatusQueryIsNotConstructed)
}

func (q ResolveStatusQuery) CarrierID() kernel.UUID {
	return q.carrierID
}

func (q ResolveStatusQuery) Event() carrier.Event {
	return q.event
}

// ResolveStatusQueryResponse carries a nil StatusID both when no rule exists
// and when the rule is an explicit "no status change".
type ResolveStatusQueryResponse struct {
	CarrierID kernel.UUID
	Event     carrier.Event
	StatusID  *kernel.UUID
}
