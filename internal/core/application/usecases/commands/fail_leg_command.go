package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrFailLegCommandIsNotConstructed = errors.New(
	"FailLegCommand must be created via NewFailLegCommand constructor",
)

// FailLegCommand records a failed delivery attempt for one leg.
type FailLegCommand struct {
	carrierID kernel.UUID
	legID     kernel.UUID
	reason    string
	guard     guard.ConstructorGuard
}

// NewFailLegCommand trims reason and requires it to be non-empty. A failed
// leg without a reason cannot be told apart from a cancelled one.
func NewFailLegCommand(carrierID, legID kernel.UUID, reason string) (FailLegCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err := errors.Join(carrierID.Validate(), legID.Validate(), reasonErr); err != nil {
		return FailLegCommand{}, err
	}
	return FailLegCommand{carrierID: carrierID, legID: legID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c FailLegCommand) Validate() error {
	return c.guard.Validate(ErrFailLegCommandIsNotConstructed)
}

func (c FailLegCommand) CarrierID() kernel.UUID {
	return c.carrierID
}

func (c FailLegCommand) LegID() kernel.UUID {
	return c.legID
}

func (c FailLegCommand) Reason() string {
	return c.reason
}
