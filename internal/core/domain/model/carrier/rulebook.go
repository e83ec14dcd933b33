package carrier

import (
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Rule binds a lifecycle event to one of the carrier's statuses. A nil
// StatusID is an explicit "no status change" binding.
type Rule struct {
	Event    Event
	StatusID *kernel.UUID
}

// Rulebook is a carrier's Status Catalog plus its rules. It is validated
// when loaded, so Resolve never has to cope with a foreign status.
//
// Invariants:
//   - every status belongs to carrierID and names are unique ignoring case
//   - every bound status id is in the catalog
//   - an event has at most one binding; a nil binding means "no change"
//
// Example:
//
//	rb, err := NewRulebook(carrierID, statuses, rules)
//	if err != nil {
//	    return err
//	}
//	if status := rb.Resolve(EventLoaded); status != nil {
//	    // apply status to the shipment
//	}
type Rulebook struct {
	carrierID kernel.UUID
	statuses  map[kernel.UUID]*Status
	// bindings holds explicit rules; a missing key and a nil value both
	// resolve to no status
	bindings map[Event]*kernel.UUID
}

// NewRulebook builds a rulebook from persisted statuses and rules.
//
// It fails when a status belongs to another carrier, when an event is bound
// twice, or when a rule points at a status outside the catalog.
func NewRulebook(carrierID kernel.UUID, statuses []*Status, rules []Rule) (*Rulebook, error) {
	if err := carrierID.Validate(); err != nil {
		return nil, err
	}

	rb := &Rulebook{
		carrierID: carrierID,
		statuses:  make(map[kernel.UUID]*Status, len(statuses)),
		bindings:  make(map[Event]*kernel.UUID, len(rules)),
	}

	for _, s := range statuses {
		if err := rb.AddStatus(s); err != nil {
			return nil, err
		}
	}

	for _, r := range rules {
		if _, dup := rb.bindings[r.Event]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("rule",
				fmt.Errorf("event %s is bound more than once for carrier %s", r.Event, carrierID))
		}
		if err := rb.Bind(r.Event, r.StatusID); err != nil {
			return nil, err
		}
	}

	return rb, nil
}

// CarrierID returns the tenant the rulebook belongs to.
func (rb *Rulebook) CarrierID() kernel.UUID {
	return rb.carrierID
}

// AddStatus adds a status to the catalog. Status names are unique per carrier.
func (rb *Rulebook) AddStatus(s *Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !s.CarrierID().IsEqual(rb.carrierID) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("status %s belongs to carrier %s, not %s", s.ID(), s.CarrierID(), rb.carrierID))
	}
	for _, existing := range rb.statuses {
		if strings.EqualFold(existing.Name(), s.Name()) && !existing.ID().IsEqual(s.ID()) {
			return errs.NewPreconditionFailedError(fmt.Sprintf("status %q already exists", s.Name()))
		}
	}
	rb.statuses[s.ID()] = s
	return nil
}

// Bind sets or replaces the rule for event.
func (rb *Rulebook) Bind(event Event, statusID *kernel.UUID) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if statusID != nil {
		if _, ok := rb.statuses[*statusID]; !ok {
			return errs.NewValueIsInvalidErrorWithCause("rule",
				fmt.Errorf("status %s is not in the catalog of carrier %s", statusID, rb.carrierID))
		}
		id := *statusID
		statusID = &id
	}
	rb.bindings[event] = statusID
	return nil
}

// Resolve returns the status bound to event, or nil when the carrier has no
// rule for it or the rule is bound to nothing.
func (rb *Rulebook) Resolve(event Event) *Status {
	id, ok := rb.bindings[event]
	if !ok || id == nil {
		return nil
	}
	return rb.statuses[*id]
}

// Rule returns the stored rule for event and whether one exists.
func (rb *Rulebook) Rule(event Event) (Rule, bool) {
	id, ok := rb.bindings[event]
	if !ok {
		return Rule{}, false
	}
	return Rule{Event: event, StatusID: id}, true
}

// Status looks a status up in the catalog.
func (rb *Rulebook) Status(id kernel.UUID) (*Status, bool) {
	s, ok := rb.statuses[id]
	return s, ok
}

// Statuses returns the catalog in no particular order.
func (rb *Rulebook) Statuses() []*Status {
	out := make([]*Status, 0, len(rb.statuses))
	for _, s := range rb.statuses {
		out = append(out, s)
	}
	return out
}

// StatusByName finds a status by its case-insensitive name.
func (rb *Rulebook) StatusByName(name string) (*Status, bool) {
	name = strings.TrimSpace(name)
	for _, s := range rb.statuses {
		if strings.EqualFold(s.Name(), name) {
			return s, true
		}
	}
	return nil, false
}
