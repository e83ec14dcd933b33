package carrier

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrStatusIsNotConstructed is returned when using a zero-value or nil Status.
var ErrStatusIsNotConstructed = errs.NewValueIsRequiredError("Status must be created via NewStatus constructor")

// Status is an entry of a carrier's Status Catalog.
//
// LockedForCustomers forbids the owning customer from editing the shipment;
// the flag is only exposed here and enforced by the authorization layer.
// Closed marks the terminal resting state of a shipment.
type Status struct {
	id                 kernel.UUID
	carrierID          kernel.UUID
	name               string
	lockedForCustomers bool
	closed             bool
	guard              guard.ConstructorGuard
}

// NewStatus validates the identifiers and a non-blank name. Name
// uniqueness is a catalog rule and is checked by Rulebook.AddStatus.
func NewStatus(id, carrierID kernel.UUID, name string, lockedForCustomers, closed bool) (*Status, error) {
	s := &Status{
		lockedForCustomers: lockedForCustomers,
		closed:             closed,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setCarrierID(carrierID),
		s.setName(name),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Status) Validate() error {
	if s == nil {
		return ErrStatusIsNotConstructed
	}
	return s.guard.Validate(ErrStatusIsNotConstructed)
}

func (s *Status) ID() kernel.UUID {
	return s.id
}

func (s *Status) CarrierID() kernel.UUID {
	return s.carrierID
}

func (s *Status) Name() string {
	return s.name
}

func (s *Status) LockedForCustomers() bool {
	return s.lockedForCustomers
}

func (s *Status) Closed() bool {
	return s.closed
}

func (s *Status) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Status) setCarrierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.carrierID = id
	return nil
}

func (s *Status) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("status name")
	}
	s.name = name
	return nil
}
