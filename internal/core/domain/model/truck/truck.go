package truck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Domain errors for truck operations.
var (
	// ErrTruckIsNotConstructed is returned when using a zero-value or nil Truck.
	ErrTruckIsNotConstructed = errs.NewValueIsRequiredError("Truck must be created via NewTruck constructor")
	// ErrTruckIsInactive is returned when an inactive truck is put on a new run.
	ErrTruckIsInactive = errs.NewPreconditionFailedError("truck is inactive")
	// ErrTruckNotOwned is returned when a carrier uses another carrier's truck.
	ErrTruckNotOwned = errs.NewPreconditionFailedError("truck does not belong to the carrier")
)

// Truck is a carrier's vehicle.
//
// Invariants:
//   - mileage is never negative and only grows
//   - deactivatedAt is set if and only if the truck is inactive
//   - capacity is a constructed, strictly positive Dimensions value
//
// Business rules:
//   - every closed delivery must report an odometer reading strictly above
//     the current mileage
//   - an inactive truck cannot take new deliveries until it is reactivated
//   - only the owning carrier may put the truck on a run
//   - Deactivate raises MaintenanceDue once per deactivation
//
// Example:
//
//	capacity, _ := kernel.NewDimensions(18000, 80)
//	t, err := NewTruck(kernel.NewUUID(), carrierID, "FR-001", 0, capacity, time.Now())
//	if err != nil {
//	    return err
//	}
//	if err = t.EnsureUsableBy(carrierID); err != nil {
//	    return err // ErrTruckNotOwned or ErrTruckIsInactive
//	}
type Truck struct {
	ddd.AggregateRoot

	id        kernel.UUID
	carrierID kernel.UUID
	plate     string
	// mileage is the last recorded odometer reading
	mileage  int
	capacity kernel.Dimensions
	// active is false while the truck waits for maintenance
	active        bool
	deactivatedAt *time.Time
	// commissioned is the baseline for time-based maintenance before the
	// first inspection
	commissioned time.Time
	guard        guard.ConstructorGuard
}

// NewTruck registers an active truck.
//
// Parameters:
//   - id, carrierID: identifiers of the truck and its owner
//   - plate: licence plate, must not be blank
//   - mileage: starting odometer reading, must not be negative
//   - capacity: maximum load the truck can carry
//   - commissioned: when the truck entered service
func NewTruck(
	id, carrierID kernel.UUID,
	plate string,
	mileage int,
	capacity kernel.Dimensions,
	commissioned time.Time,
) (*Truck, error) {
	return RestoreTruck(id, carrierID, plate, mileage, capacity, true, nil, commissioned)
}

// RestoreTruck rebuilds a truck from persistence.
func RestoreTruck(
	id, carrierID kernel.UUID,
	plate string,
	mileage int,
	capacity kernel.Dimensions,
	active bool,
	deactivatedAt *time.Time,
	commissioned time.Time,
) (*Truck, error) {
	t := &Truck{
		active:        active,
		deactivatedAt: deactivatedAt,
		commissioned:  commissioned.UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setCarrierID(carrierID),
		t.setPlate(plate),
		t.setMileage(mileage),
		t.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate reports whether t was built by NewTruck or RestoreTruck.
func (t *Truck) Validate() error {
	if t == nil {
		return ErrTruckIsNotConstructed
	}
	return t.guard.Validate(ErrTruckIsNotConstructed)
}

func (t *Truck) ID() kernel.UUID {
	return t.id
}

func (t *Truck) CarrierID() kernel.UUID {
	return t.carrierID
}

func (t *Truck) Plate() string {
	return t.plate
}

// Mileage returns the last recorded odometer reading.
func (t *Truck) Mileage() int {
	return t.mileage
}

// Capacity returns the maximum weight and volume the truck can carry.
func (t *Truck) Capacity() kernel.Dimensions {
	return t.capacity
}

func (t *Truck) Active() bool {
	return t.active
}

// DeactivatedAt returns when the truck went off the road, nil while active.
func (t *Truck) DeactivatedAt() *time.Time {
	return t.deactivatedAt
}

func (t *Truck) CommissionedAt() time.Time {
	return t.commissioned
}

// BelongsTo reports whether carrierID owns the truck.
func (t *Truck) BelongsTo(carrierID kernel.UUID) bool {
	return t.carrierID.IsEqual(carrierID)
}

// EnsureUsableBy checks that carrierID may put the truck on a new run.
func (t *Truck) EnsureUsableBy(carrierID kernel.UUID) error {
	if !t.BelongsTo(carrierID) {
		return ErrTruckNotOwned
	}
	if !t.active {
		return ErrTruckIsInactive
	}
	return nil
}

// RecordOdometer sets the mileage from a closing odometer reading.
func (t *Truck) RecordOdometer(reading int) error {
	if reading <= t.mileage {
		return errs.NewValueIsInvalidErrorWithCause("odometer",
			fmt.Errorf("reading %d must exceed current mileage %d", reading, t.mileage))
	}
	t.mileage = reading
	return nil
}

// Deactivate takes the truck off the road for maintenance and raises
// MaintenanceDue. Deactivating an inactive truck does nothing.
func (t *Truck) Deactivate(now time.Time) {
	if !t.active {
		return
	}
	at := now.UTC()
	t.active = false
	t.deactivatedAt = &at
	t.RaiseDomainEvent(MaintenanceDue{TruckID: t.id, CarrierID: t.carrierID, Mileage: t.mileage})
}

// Activate puts a serviced truck back into rotation.
func (t *Truck) Activate() {
	t.active = true
	t.deactivatedAt = nil
}

func (t *Truck) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Truck) setCarrierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.carrierID = id
	return nil
}

func (t *Truck) setPlate(plate string) error {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return errs.NewValueIsRequiredError("plate")
	}
	t.plate = plate
	return nil
}

func (t *Truck) setMileage(mileage int) error {
	if mileage < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mileage", fmt.Errorf("%d is negative", mileage))
	}
	t.mileage = mileage
	return nil
}

func (t *Truck) setCapacity(c kernel.Dimensions) error {
	if err := c.Validate(); err != nil {
		return err
	}
	t.capacity = c
	return nil
}
