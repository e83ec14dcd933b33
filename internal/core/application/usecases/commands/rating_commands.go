package commands

import (
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	ErrCreateRatingCommandIsNotConstructed = errors.New(
		"CreateRatingCommand must be created via NewCreateRatingCommand constructor",
	)
	ErrUpdateRatingCommandIsNotConstructed = errors.New(
		"UpdateRatingCommand must be created via NewUpdateRatingCommand constructor",
	)
	ErrDeleteRatingCommandIsNotConstructed = errors.New(
		"DeleteRatingCommand must be created via NewDeleteRatingCommand constructor",
	)
)

// CreateRatingCommand rates a delivered leg on behalf of its customer.
// The rated carrier is the one that ran the leg's delivery; it is looked up
// by the handler, not supplied by the caller.
//
// Example:
//
//	cmd, err := NewCreateRatingCommand(kernel.NewUUID(), legID, 5, "on time")
//	if err != nil {
//	    return err // stars outside 1..5 fail here
//	}
//	if err = NewCreateRatingCommandHandler(uowFactory).Handle(ctx, cmd); err != nil {
//	    return err
//	}
type CreateRatingCommand struct {
	ratingID kernel.UUID
	legID    kernel.UUID
	stars    int
	comment  string
	guard    guard.ConstructorGuard
}

// NewCreateRatingCommand validates the identifiers and that stars lies in
// carrier.MinStars..carrier.MaxStars.
func NewCreateRatingCommand(ratingID, legID kernel.UUID, stars int, comment string) (CreateRatingCommand, error) {
	if err := errors.Join(ratingID.Validate(), legID.Validate(), validateStars(stars)); err != nil {
		return CreateRatingCommand{}, err
	}
	return CreateRatingCommand{
		ratingID: ratingID,
		legID:    legID,
		stars:    stars,
		comment:  comment,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateRatingCommand) Validate() error {
	return c.guard.Validate(ErrCreateRatingCommandIsNotConstructed)
}

func (c CreateRatingCommand) RatingID() kernel.UUID {
	return c.ratingID
}

func (c CreateRatingCommand) LegID() kernel.UUID {
	return c.legID
}

func (c CreateRatingCommand) Stars() int {
	return c.stars
}

func (c CreateRatingCommand) Comment() string {
	return c.comment
}

// UpdateRatingCommand replaces the stars, and optionally the comment, of an
// existing rating. The carrier aggregate moves by the difference.
type UpdateRatingCommand struct {
	ratingID kernel.UUID
	stars    int
	comment  *string
	guard    guard.ConstructorGuard
}

// NewUpdateRatingCommand changes the stars of a rating. A nil comment keeps
// the current one.
func NewUpdateRatingCommand(ratingID kernel.UUID, stars int, comment *string) (UpdateRatingCommand, error) {
	if err := errors.Join(ratingID.Validate(), validateStars(stars)); err != nil {
		return UpdateRatingCommand{}, err
	}
	return UpdateRatingCommand{ratingID: ratingID, stars: stars, comment: comment, guard: guard.NewConstructorGuard()}, nil
}

func (c UpdateRatingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRatingCommandIsNotConstructed)
}

func (c UpdateRatingCommand) RatingID() kernel.UUID {
	return c.ratingID
}

func (c UpdateRatingCommand) Stars() int {
	return c.stars
}

func (c UpdateRatingCommand) Comment() *string {
	return c.comment
}

type DeleteRatingCommand struct {
	ratingID kernel.UUID
	guard    guard.ConstructorGuard
}

// NewDeleteRatingCommand rejects an unset rating id.
func NewDeleteRatingCommand(ratingID kernel.UUID) (DeleteRatingCommand, error) {
	if err := ratingID.Validate(); err != nil {
		return DeleteRatingCommand{}, err
	}
	return DeleteRatingCommand{ratingID: ratingID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteRatingCommand) Validate() error {
	return c.guard.Validate(ErrDeleteRatingCommandIsNotConstructed)
}

func (c DeleteRatingCommand) RatingID() kernel.UUID {
	return c.ratingID
}

func validateStars(stars int) error {
	if stars < carrier.MinStars || stars > carrier.MaxStars {
		return errs.NewValueIsOutOfRangeError("stars", stars, carrier.MinStars, carrier.MaxStars)
	}
	return nil
}
