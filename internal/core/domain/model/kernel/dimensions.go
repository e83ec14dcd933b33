package kernel

import (
	"errors"
	"fmt"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrDimensionsAreNotConstructed = errs.NewValueIsRequiredError("dimensions must be created via NewDimensions")

// Dimensions is a weight (kg) and volume (m³) pair. It describes both what a
// shipment occupies and what a truck can carry.
type Dimensions struct { //nolint:recvcheck //using for validation
	weightKg float64
	volumeM3 float64
	guard    guard.ConstructorGuard
}

// NewDimensions requires both weight and volume to be greater than zero.
func NewDimensions(weightKg, volumeM3 float64) (Dimensions, error) {
	d := Dimensions{guard: guard.NewConstructorGuard()}

	if err := errors.Join(d.setWeight(weightKg), d.setVolume(volumeM3)); err != nil {
		return Dimensions{}, err
	}

	return d, nil
}

// ZeroDimensions is the neutral element for Add.
func ZeroDimensions() Dimensions {
	return Dimensions{guard: guard.NewConstructorGuard()}
}

func (d Dimensions) Validate() error {
	return d.guard.Validate(ErrDimensionsAreNotConstructed)
}

func (d Dimensions) WeightKg() float64 {
	return d.weightKg
}

func (d Dimensions) VolumeM3() float64 {
	return d.volumeM3
}

// Add sums both axes. The result is always constructed.
func (d Dimensions) Add(other Dimensions) Dimensions {
	return Dimensions{
		weightKg: d.weightKg + other.weightKg,
		volumeM3: d.volumeM3 + other.volumeM3,
		guard:    guard.NewConstructorGuard(),
	}
}

// FitsWithin reports whether d does not exceed capacity on either axis.
func (d Dimensions) FitsWithin(capacity Dimensions) bool {
	return d.weightKg <= capacity.weightKg && d.volumeM3 <= capacity.volumeM3
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%.2fkg/%.3fm3", d.weightKg, d.volumeM3)
}

func (d *Dimensions) setWeight(v float64) error {
	if v <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not greater than 0", v))
	}
	d.weightKg = v
	return nil
}

func (d *Dimensions) setVolume(v float64) error {
	if v <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("volume", fmt.Errorf("%v is not greater than 0", v))
	}
	d.volumeM3 = v
	return nil
}
