package delivery

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// State is the lifecycle state of a Delivery. The transition methods
// return the next state and leave the receiver alone, so the aggregate
// decides when to commit to it.
type State string

// Delivery states. Completed and cancelled are terminal.
const (
	StateScheduled  State = "scheduled"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

func (s State) Validate() error {
	switch s {
	case StateScheduled, StateInProgress, StateCompleted, StateCancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("delivery state", fmt.Errorf("%q is not a delivery state", string(s)))
	}
}

// IsActive reports whether a delivery in this state still occupies its truck.
func (s State) IsActive() bool {
	return s == StateScheduled || s == StateInProgress
}

// Start is the scheduled to in_progress transition.
func (s State) Start() (State, error) {
	if s != StateScheduled {
		return "", errs.NewPreconditionFailedError(fmt.Sprintf("cannot start a %s delivery", s))
	}
	return StateInProgress, nil
}

// Complete is the in_progress to completed transition.
func (s State) Complete() (State, error) {
	if s != StateInProgress {
		return "", errs.NewPreconditionFailedError(fmt.Sprintf("cannot complete a %s delivery", s))
	}
	return StateCompleted, nil
}

// Cancel moves any active state to cancelled.
func (s State) Cancel() (State, error) {
	if !s.IsActive() {
		return "", errs.NewPreconditionFailedError(fmt.Sprintf("cannot cancel a %s delivery", s))
	}
	return StateCancelled, nil
}

func (s State) String() string {
	return string(s)
}
