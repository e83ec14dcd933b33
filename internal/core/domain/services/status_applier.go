package services

import (
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
)

// StatusChange describes the effect of applying a status to a shipment.
type StatusChange struct {
	// Status is the status that was resolved, nil when no rule matched.
	Status *carrier.Status
	// Changed is true when the shipment moved to a different status.
	Changed bool
	// EnteredClosed is true when the shipment moved into a closed status,
	// which marks its open leg delivered.
	EnteredClosed bool
}

// StatusApplier applies tenant statuses to shipments.
type StatusApplier struct{}

func NewStatusApplier() StatusApplier {
	return StatusApplier{}
}

// ApplyEvent resolves event through rb and applies the bound status to s.
// An unbound event is a no-op, not an error.
func (StatusApplier) ApplyEvent(s *shipment.Shipment, rb *carrier.Rulebook, event carrier.Event) (StatusChange, error) {
	if err := s.Validate(); err != nil {
		return StatusChange{}, err
	}
	if !s.OwnedBy(rb.CarrierID()) {
		return StatusChange{}, shipment.ErrShipmentNotOwned
	}

	status := rb.Resolve(event)
	if status == nil {
		return StatusChange{}, nil
	}
	return apply(s, status)
}

// Apply sets an explicitly chosen status on s.
func (StatusApplier) Apply(s *shipment.Shipment, status *carrier.Status) (StatusChange, error) {
	if err := s.Validate(); err != nil {
		return StatusChange{}, err
	}
	return apply(s, status)
}

func apply(s *shipment.Shipment, status *carrier.Status) (StatusChange, error) {
	changed, err := s.ApplyStatus(status)
	if err != nil {
		return StatusChange{}, err
	}
	return StatusChange{
		Status:        status,
		Changed:       changed,
		EnteredClosed: changed && status.Closed(),
	}, nil
}
