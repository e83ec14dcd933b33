package commands

import (
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrBindRuleCommandIsNotConstructed = errors.New(
	"BindRuleCommand must be created via NewBindRuleCommand constructor",
)

// BindRuleCommand sets the status a carrier applies on a lifecycle event.
// A nil status id binds the event to "no status change".
type BindRuleCommand struct {
	carrierID kernel.UUID
	event     carrier.Event
	statusID  *kernel.UUID
	guard     guard.ConstructorGuard
}

// NewBindRuleCommand accepts only the fixed lifecycle events.
func NewBindRuleCommand(carrierID kernel.UUID, event carrier.Event, statusID *kernel.UUID) (BindRuleCommand, error) {
	if err := errors.Join(carrierID.Validate(), event.Validate()); err != nil {
		return BindRuleCommand{}, err
	}
	if statusID != nil {
		if err := statusID.Validate(); err != nil {
			return BindRuleCommand{}, err
		}
	}
	return BindRuleCommand{carrierID: carrierID, event: event, statusID: statusID, guard: guard.NewConstructorGuard()}, nil
}

func (c BindRuleCommand) Validate() error {
	return c.guard.Validate(ErrBindRuleCommandIsNotConstructed)
}

func (c BindRuleCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c BindRuleCommand) Event() carrier.Event {
	return c.event
}

func (c BindRuleCommand) StatusID() *kernel.UUID {
	return c.statusID
}
