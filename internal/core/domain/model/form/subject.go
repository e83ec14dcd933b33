package form

import "freight/internal/core/domain/model/kernel"

// Subject is what a form is attached to: either a TruckSubject or a
// DeliverySubject. The interface is sealed.
type Subject interface {
	ID() kernel.UUID
	isSubject()
}

type TruckSubject struct {
	TruckID kernel.UUID
}

func (s TruckSubject) ID() kernel.UUID {
	return s.TruckID
}

func (TruckSubject) isSubject() {}

type DeliverySubject struct {
	DeliveryID kernel.UUID
}

func (s DeliverySubject) ID() kernel.UUID {
	return s.DeliveryID
}

func (DeliverySubject) isSubject() {}
