package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/rating"
	"freight/internal/pkg/errs"
)

// ErrLegAlreadyRated is returned when a second rating is created for a leg.
var ErrLegAlreadyRated = errs.NewPreconditionFailedError("leg is already rated")

// Rating handlers lock the rating row first and the carrier row second. The
// carrier lock serializes every change to one carrier's average.

// CreateRatingCommandHandler rates a delivered leg and folds the stars into
// the carrier's running average.
//
// Business rules:
//   - only a leg with outcome delivered can be rated (rating.ErrLegNotDelivered)
//   - a leg carries at most one rating (ErrLegAlreadyRated)
//   - the rating and the new average are committed together
//
// Example:
//
//	cmd, err := NewCreateRatingCommand(kernel.NewUUID(), legID, 5, "on time")
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("rate leg: %w", err)
//	}
type CreateRatingCommandHandler struct {
	uowFactory RatingUoWFactory
}

// NewCreateRatingCommandHandler creates the handler.
func NewCreateRatingCommandHandler(uowFactory RatingUoWFactory) CreateRatingCommandHandler {
	return CreateRatingCommandHandler{uowFactory: uowFactory}
}

// Handle builds the rating from the leg before taking any lock. There is no
// rating row yet, so the carrier row is the only lock, and it is taken
// before the duplicate check so two concurrent ratings of one leg cannot
// both pass it.
func (h CreateRatingCommandHandler) Handle(ctx context.Context, command CreateRatingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().FindByLeg(ctx, command.LegID())
	if err != nil {
		return err
	}
	leg, err := d.Leg(command.LegID())
	if err != nil {
		return err
	}

	r, err := rating.NewRating(command.RatingID(), leg, d.CarrierID(), command.Stars(), command.Comment(), time.Now())
	if err != nil {
		return err
	}

	c, err := uow.CarrierRepository().GetForUpdate(ctx, d.CarrierID())
	if err != nil {
		return err
	}
	rated, err := uow.RatingRepository().ExistsForLeg(ctx, command.LegID())
	if err != nil {
		return err
	}
	if rated {
		return ErrLegAlreadyRated
	}

	stars := r.Stars()
	if err = c.ApplyRatingDelta(nil, &stars); err != nil {
		return err
	}

	if err = uow.RatingRepository().Add(ctx, r); err != nil {
		return err
	}
	if err = uow.CarrierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// UpdateRatingCommandHandler changes the stars, and optionally the comment,
// of an existing rating. The carrier average moves by the difference
// between the old and the new stars.
type UpdateRatingCommandHandler struct {
	uowFactory RatingUoWFactory
}

func NewUpdateRatingCommandHandler(uowFactory RatingUoWFactory) UpdateRatingCommandHandler {
	return UpdateRatingCommandHandler{uowFactory: uowFactory}
}

// Handle leaves the comment alone when the command carries none.
func (h UpdateRatingCommandHandler) Handle(ctx context.Context, command UpdateRatingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RatingRepository().GetForUpdate(ctx, command.RatingID())
	if err != nil {
		return err
	}
	c, err := uow.CarrierRepository().GetForUpdate(ctx, r.CarrierID())
	if err != nil {
		return err
	}

	oldStars, err := r.ChangeStars(command.Stars())
	if err != nil {
		return err
	}
	if command.Comment() != nil {
		if err = r.ChangeComment(*command.Comment()); err != nil {
			return err
		}
	}

	newStars := r.Stars()
	if err = c.ApplyRatingDelta(&oldStars, &newStars); err != nil {
		return err
	}

	if err = uow.RatingRepository().Update(ctx, r); err != nil {
		return err
	}
	if err = uow.CarrierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// DeleteRatingCommandHandler removes a rating and takes its stars out of the
// carrier average. Deleting the last rating resets the average to zero.
type DeleteRatingCommandHandler struct {
	uowFactory RatingUoWFactory
}

// NewDeleteRatingCommandHandler creates the handler.
func NewDeleteRatingCommandHandler(uowFactory RatingUoWFactory) DeleteRatingCommandHandler {
	return DeleteRatingCommandHandler{uowFactory: uowFactory}
}

// Handle removes the rating and takes its stars out of the carrier average
// in the same transaction.
func (h DeleteRatingCommandHandler) Handle(ctx context.Context, command DeleteRatingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RatingRepository().GetForUpdate(ctx, command.RatingID())
	if err != nil {
		return err
	}
	c, err := uow.CarrierRepository().GetForUpdate(ctx, r.CarrierID())
	if err != nil {
		return err
	}

	oldStars := r.Stars()
	if err = c.ApplyRatingDelta(&oldStars, nil); err != nil {
		return err
	}

	if err = uow.RatingRepository().Delete(ctx, r.ID()); err != nil {
		return err
	}
	if err = uow.CarrierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
