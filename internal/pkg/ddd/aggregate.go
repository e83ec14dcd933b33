// Package ddd holds the small amount of shared plumbing aggregates need to
// record domain events until the unit of work commits.
package ddd

// DomainEvent is a fact raised by an aggregate. Name identifies the event
// type for routing, AggregateID the aggregate that raised it.
type DomainEvent interface {
	Name() string
	AggregateID() string
}

// AggregateRoot buffers events raised during a business operation. It is
// embedded by value in aggregates; the buffer is drained by the unit of work
// after a successful commit.
type AggregateRoot struct {
	events []DomainEvent
}

func (a *AggregateRoot) RaiseDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

func (a *AggregateRoot) DomainEvents() []DomainEvent {
	return a.events
}

func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// EventSource is implemented by every aggregate embedding AggregateRoot.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
