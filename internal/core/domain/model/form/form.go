// Package form holds maintenance forms submitted by the external
// maintenance-form collaborator. The maintenance policy reads them to decide
// whether a truck is due for service.
package form

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrFormIsNotConstructed is returned when using a zero-value or nil Form.
var ErrFormIsNotConstructed = errs.NewValueIsRequiredError("Form must be created via NewForm constructor")

// Kind tells an inspection from an incident report.
type Kind string

// Form kinds. An inspection resets the maintenance counters; an incident
// makes the truck due right away.
const (
	KindInspection Kind = "inspection"
	KindIncident   Kind = "incident"
)

func (k Kind) Validate() error {
	switch k {
	case KindInspection, KindIncident:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("form kind", fmt.Errorf("%q is not a form kind", string(k)))
	}
}

// Form is an immutable maintenance record submitted for a truck or for a
// delivery. Forms are append-only; there is no update or delete.
//
// Invariants:
//   - kind is inspection or incident
//   - subject is a TruckSubject or a DeliverySubject with a valid id
//   - mileage is the odometer reading at submission and is never negative
type Form struct {
	id          kernel.UUID
	kind        Kind
	subject     Subject
	mileage     int
	notes       string
	submittedAt time.Time
	guard       guard.ConstructorGuard
}

// NewForm validates every field and reports all violations together.
// notes are trimmed; submittedAt is stored in UTC.
func NewForm(id kernel.UUID, kind Kind, subject Subject, mileage int, notes string, submittedAt time.Time) (*Form, error) {
	f := &Form{
		notes:       strings.TrimSpace(notes),
		submittedAt: submittedAt.UTC(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		f.setID(id),
		f.setKind(kind),
		f.setSubject(subject),
		f.setMileage(mileage),
	); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Form) Validate() error {
	if f == nil {
		return ErrFormIsNotConstructed
	}
	return f.guard.Validate(ErrFormIsNotConstructed)
}

func (f *Form) ID() kernel.UUID {
	return f.id
}

func (f *Form) Kind() Kind {
	return f.kind
}

func (f *Form) Subject() Subject {
	return f.subject
}

func (f *Form) Mileage() int {
	return f.mileage
}

func (f *Form) Notes() string {
	return f.notes
}

func (f *Form) SubmittedAt() time.Time {
	return f.submittedAt
}

func (f *Form) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	f.id = id
	return nil
}

func (f *Form) setKind(k Kind) error {
	if err := k.Validate(); err != nil {
		return err
	}
	f.kind = k
	return nil
}

func (f *Form) setSubject(s Subject) error {
	if s == nil {
		return errs.NewValueIsRequiredError("form subject")
	}
	if err := s.ID().Validate(); err != nil {
		return err
	}
	f.subject = s
	return nil
}

func (f *Form) setMileage(m int) error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mileage", fmt.Errorf("%d is negative", m))
	}
	f.mileage = m
	return nil
}
