// Package rating provides the Rating aggregate: one customer review of a
// delivered leg. Every change to a rating is folded into the owning
// carrier's rating aggregate in the same transaction.
package rating

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MaxCommentLength caps the trimmed comment, counted in bytes.
const MaxCommentLength = 2000

// Domain errors for rating operations.
var (
	// ErrRatingIsNotConstructed is returned when using a zero-value or nil Rating.
	ErrRatingIsNotConstructed = errs.NewValueIsRequiredError("Rating must be created via NewRating constructor")
	// ErrLegNotDelivered is returned when rating a pending or failed leg.
	ErrLegNotDelivered = errs.NewPreconditionFailedError("only delivered legs can be rated")
)

// Rating is one customer review of a delivered leg.
//
// Invariants:
//   - stars lies in carrier.MinStars..carrier.MaxStars
//   - legID and carrierID never change; the rated carrier is the one that
//     ran the leg's delivery
//   - the comment never exceeds MaxCommentLength
//
// Business rules:
//   - only a delivered leg can be rated, and only once
//   - every create, star change and delete moves the carrier's rating
//     aggregate in the same transaction
//
// Example:
//
//	r, err := NewRating(kernel.NewUUID(), leg, d.CarrierID(), 5, "on time", time.Now())
//	if errors.Is(err, ErrLegNotDelivered) {
//	    // leg is still pending or failed
//	}
type Rating struct {
	id        kernel.UUID
	legID     kernel.UUID
	carrierID kernel.UUID
	stars     int
	comment   string
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewRating rates a delivered leg run by carrierID.
func NewRating(id kernel.UUID, leg *delivery.Leg, carrierID kernel.UUID, stars int, comment string, now time.Time) (*Rating, error) {
	if err := leg.Validate(); err != nil {
		return nil, err
	}
	if !leg.IsDelivered() {
		return nil, ErrLegNotDelivered
	}
	return RestoreRating(id, leg.ID(), carrierID, stars, comment, now)
}

// RestoreRating rebuilds a rating from persistence without the delivered
// check, which only applies when the rating is first created.
func RestoreRating(id, legID, carrierID kernel.UUID, stars int, comment string, createdAt time.Time) (*Rating, error) {
	r := &Rating{
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&r.id, id),
		setID(&r.legID, legID),
		setID(&r.carrierID, carrierID),
		r.setStars(stars),
		r.setComment(comment),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Rating) Validate() error {
	if r == nil {
		return ErrRatingIsNotConstructed
	}
	return r.guard.Validate(ErrRatingIsNotConstructed)
}

func (r *Rating) ID() kernel.UUID {
	return r.id
}

func (r *Rating) LegID() kernel.UUID {
	return r.legID
}

func (r *Rating) CarrierID() kernel.UUID {
	return r.carrierID
}

func (r *Rating) Stars() int {
	return r.stars
}

func (r *Rating) Comment() string {
	return r.comment
}

func (r *Rating) CreatedAt() time.Time {
	return r.createdAt
}

// ChangeStars replaces the score and returns the previous one.
func (r *Rating) ChangeStars(stars int) (int, error) {
	old := r.stars
	if err := r.setStars(stars); err != nil {
		return old, err
	}
	return old, nil
}

// ChangeComment trims comment and enforces MaxCommentLength. An empty
// comment clears it.
func (r *Rating) ChangeComment(comment string) error {
	return r.setComment(comment)
}

func (r *Rating) setStars(stars int) error {
	if stars < carrier.MinStars || stars > carrier.MaxStars {
		return errs.NewValueIsOutOfRangeError("stars", stars, carrier.MinStars, carrier.MaxStars)
	}
	r.stars = stars
	return nil
}

func (r *Rating) setComment(comment string) error {
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxCommentLength {
		return errs.NewValueIsOutOfRangeError("comment length", len(comment), 0, MaxCommentLength)
	}
	r.comment = comment
	return nil
}

func setID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
