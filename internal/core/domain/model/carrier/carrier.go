package carrier

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrCarrierIsNotConstructed is returned when using a zero-value or nil Carrier.
var ErrCarrierIsNotConstructed = errs.NewValueIsRequiredError("Carrier must be created via NewCarrier constructor")

// Carrier is a tenant company moving shipments. It owns the rating
// aggregate; statuses and rules are loaded separately as a Rulebook.
//
// Invariants:
//   - id never changes and name is never blank
//   - the rating aggregate is only moved through ApplyRatingDelta, one
//     rating change at a time
//
// Example:
//
//	c, err := NewCarrier(kernel.NewUUID(), "Northwind Haulage")
//	if err != nil {
//	    return err
//	}
//	stars := 4
//	if err = c.ApplyRatingDelta(nil, &stars); err != nil {
//	    return err
//	}
//	// c.Rating().Count() == 1
type Carrier struct {
	id     kernel.UUID
	name   string
	rating RatingAggregate
	guard  guard.ConstructorGuard
}

// NewCarrier creates a carrier with an empty rating aggregate.
func NewCarrier(id kernel.UUID, name string) (*Carrier, error) {
	return RestoreCarrier(id, name, RatingAggregate{})
}

// RestoreCarrier rebuilds a carrier from persistence.
func RestoreCarrier(id kernel.UUID, name string, rating RatingAggregate) (*Carrier, error) {
	c := &Carrier{
		rating: rating,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports whether c was built by NewCarrier or RestoreCarrier.
func (c *Carrier) Validate() error {
	if c == nil {
		return ErrCarrierIsNotConstructed
	}
	return c.guard.Validate(ErrCarrierIsNotConstructed)
}

func (c *Carrier) ID() kernel.UUID {
	return c.id
}

func (c *Carrier) Name() string {
	return c.name
}

// Rating returns the running (average, count) of the carrier's ratings.
func (c *Carrier) Rating() RatingAggregate {
	return c.rating
}

// Rename changes the display name of the carrier.
func (c *Carrier) Rename(name string) error {
	return c.setName(name)
}

// ApplyRatingDelta updates the running average. Callers must hold the
// carrier row lock for the whole read-modify-write.
func (c *Carrier) ApplyRatingDelta(oldStars, newStars *int) error {
	next, err := c.rating.Apply(oldStars, newStars)
	if err != nil {
		return err
	}
	c.rating = next
	return nil
}

func (c *Carrier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Carrier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("carrier name")
	}
	c.name = name
	return nil
}
