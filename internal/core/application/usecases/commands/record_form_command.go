package commands

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/form"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRecordFormCommandIsNotConstructed = errors.New(
	"RecordFormCommand must be created via NewRecordFormCommand constructor",
)

// RecordFormCommand stores a maintenance form submitted by the maintenance
// collaborator against a truck or a delivery.
type RecordFormCommand struct {
	formID  kernel.UUID
	kind    form.Kind
	subject form.Subject
	mileage int
	notes   string
	guard   guard.ConstructorGuard
}

// NewRecordFormCommand requires a subject with a valid id and a mileage
// that is not negative. Notes are trimmed and may be empty.
func NewRecordFormCommand(formID kernel.UUID, kind form.Kind, subject form.Subject, mileage int, notes string) (RecordFormCommand, error) {
	if err := errors.Join(formID.Validate(), kind.Validate()); err != nil {
		return RecordFormCommand{}, err
	}
	if subject == nil {
		return RecordFormCommand{}, errs.NewValueIsRequiredError("subject")
	}
	if err := subject.ID().Validate(); err != nil {
		return RecordFormCommand{}, err
	}
	if mileage < 0 {
		return RecordFormCommand{}, errs.NewValueIsInvalidErrorWithCause("mileage", fmt.Errorf("%d is negative", mileage))
	}

	return RecordFormCommand{
		formID:  formID,
		kind:    kind,
		subject: subject,
		mileage: mileage,
		notes:   strings.TrimSpace(notes),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecordFormCommand) Validate() error {
	return c.guard.Validate(ErrRecordFormCommandIsNotConstructed)
}

func (c RecordFormCommand) FormID() kernel.UUID {
	return c.formID
}

func (c RecordFormCommand) Kind() form.Kind {
	return c.kind
}

func (c RecordFormCommand) Subject() form.Subject {
	return c.subject
}

func (c RecordFormCommand) Mileage() int {
	return c.mileage
}

func (c RecordFormCommand) Notes() string {
	return c.notes
}
