package carrier

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Event is a lifecycle occurrence that may trigger a status change according
// to a carrier's rules.
type Event string

// Lifecycle events in the order a shipment normally meets them.
const (
	EventClaimed    Event = "claimed"
	EventLoaded     Event = "loaded"
	EventDispatched Event = "dispatched"
	EventDelivered  Event = "delivered"
)

// eventAliases maps accepted input spellings to the canonical event.
var eventAliases = map[string]Event{
	"out_for_delivery": EventDispatched,
}

// Events lists every recognized event in lifecycle order.
func Events() []Event {
	return []Event{EventClaimed, EventLoaded, EventDispatched, EventDelivered}
}

// ParseEvent converts an external event name into an Event.
func ParseEvent(name string) (Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := eventAliases[normalized]; ok {
		return alias, nil
	}

	e := Event(normalized)
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e, nil
}

func (e Event) Validate() error {
	for _, known := range Events() {
		if e == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%q is not a lifecycle event", string(e)))
}

func (e Event) String() string {
	return string(e)
}
