package carrier

import (
	"fmt"

	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	// AveragePrecision is the number of fractional digits kept for the average.
	AveragePrecision = 8

	// MinStars and MaxStars bound a single rating.
	MinStars = 1
	MaxStars = 5
)

// RatingAggregate is the running (average, count) pair of a carrier's ratings.
// It is a value; Apply returns the next aggregate.
//
// Invariants:
//   - count >= 0 and average >= 0
//   - count == 0 implies average == 0
//   - average is rounded to AveragePrecision digits after every change
type RatingAggregate struct {
	average decimal.Decimal
	count   int
}

// NewRatingAggregate restores a persisted aggregate.
func NewRatingAggregate(average decimal.Decimal, count int) (RatingAggregate, error) {
	if count < 0 {
		return RatingAggregate{}, errs.NewValueIsOutOfRangeError("ratings count", count, 0, "∞")
	}
	if average.IsNegative() {
		return RatingAggregate{}, errs.NewValueIsOutOfRangeError("average rating", average.String(), 0, MaxStars)
	}
	if count == 0 && !average.IsZero() {
		return RatingAggregate{}, errs.NewValueIsInvalidErrorWithCause("average rating",
			fmt.Errorf("average %s with zero ratings", average))
	}
	return RatingAggregate{average: average, count: count}, nil
}

// Average is rounded to AveragePrecision and is zero when Count is zero.
func (a RatingAggregate) Average() decimal.Decimal {
	return a.average
}

// AverageFloat is the average as exposed to readers.
func (a RatingAggregate) AverageFloat() float64 {
	f, _ := a.average.Float64()
	return f
}

// Count returns the number of ratings folded into the average.
func (a RatingAggregate) Count() int {
	return a.count
}

// Apply folds one rating change into the aggregate. oldStars is nil on
// create, newStars is nil on delete, both are set on update.
func (a RatingAggregate) Apply(oldStars, newStars *int) (RatingAggregate, error) {
	if err := validateStars(oldStars); err != nil {
		return a, err
	}
	if err := validateStars(newStars); err != nil {
		return a, err
	}

	count := decimal.NewFromInt(int64(a.count))
	sum := a.average.Mul(count)

	switch {
	case oldStars == nil && newStars != nil:
		next := a.count + 1
		avg := sum.Add(decimal.NewFromInt(int64(*newStars))).Div(decimal.NewFromInt(int64(next)))
		return RatingAggregate{average: avg.Round(AveragePrecision), count: next}, nil

	case oldStars != nil && newStars != nil:
		if a.count == 0 {
			return a, errs.NewPreconditionFailedError("cannot update a rating of a carrier with no ratings")
		}
		avg := sum.Sub(decimal.NewFromInt(int64(*oldStars))).
			Add(decimal.NewFromInt(int64(*newStars))).
			Div(count)
		return RatingAggregate{average: avg.Round(AveragePrecision), count: a.count}, nil

	case oldStars != nil && newStars == nil:
		if a.count <= 1 {
			return RatingAggregate{average: decimal.Zero, count: 0}, nil
		}
		next := a.count - 1
		avg := sum.Sub(decimal.NewFromInt(int64(*oldStars))).Div(decimal.NewFromInt(int64(next)))
		if avg.IsNegative() {
			avg = decimal.Zero
		}
		return RatingAggregate{average: avg.Round(AveragePrecision), count: next}, nil

	default:
		return a, nil
	}
}

func validateStars(stars *int) error {
	if stars == nil {
		return nil
	}
	if *stars < MinStars || *stars > MaxStars {
		return errs.NewValueIsOutOfRangeError("stars", *stars, MinStars, MaxStars)
	}
	return nil
}
