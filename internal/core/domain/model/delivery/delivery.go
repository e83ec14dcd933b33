package delivery

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/ddd"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// CancelledLegReason is the failure reason stamped on every leg that was
// still pending when its delivery got cancelled.
const CancelledLegReason = "delivery cancelled"

// Domain errors for delivery operations.
var (
	// ErrDeliveryIsNotConstructed is returned when using a zero-value or nil Delivery.
	ErrDeliveryIsNotConstructed = errs.NewValueIsRequiredError("Delivery must be created via NewDelivery constructor")
	// ErrDeliveryHasOpenLegs is returned by Complete while any leg is pending.
	ErrDeliveryHasOpenLegs = errs.NewPreconditionFailedError("delivery still has open shipments")
	// ErrLegNotFound is the cause wrapped into not-found errors for legs.
	ErrLegNotFound = errors.New("leg not found")
)

// Delivery is one truck-and-driver run and the aggregate root of its legs.
// Every leg a delivery ever carried stays on it, so the delivery doubles as
// the ledger of hand-offs for the shipments it moved.
//
// Invariants:
//   - id, carrierID and truckID are valid and never change
//   - state only moves along scheduled, in_progress, then completed or cancelled
//   - startedAt is set exactly when the delivery left scheduled through Start
//   - finishedAt and odometer are set together by Complete; Cancel sets only finishedAt
//   - a shipment has at most one pending leg per delivery
//
// Business rules:
//   - legs can only be added while the delivery is scheduled or in_progress
//   - a delivery completes only when none of its legs is pending
//   - cancelling fails every pending leg with CancelledLegReason
//   - ShipmentDelivered and LegAddressesChanged are published after commit
//
// Example:
//
//	d, err := NewDelivery(kernel.NewUUID(), carrierID, truckID, "Dana", time.Now())
//	if err != nil {
//	    return err
//	}
//	leg, _, err := d.EnsureLeg(kernel.NewUUID(), shipmentID, sender, receiver, now)
//	// ...
//	if err = d.Start(now); err != nil {
//	    return err
//	}
type Delivery struct {
	ddd.AggregateRoot

	id        kernel.UUID
	carrierID kernel.UUID
	truckID   kernel.UUID
	// driverName is free text; empty means not yet assigned
	driverName string
	state      State
	// startedAt is nil while scheduled
	startedAt *time.Time
	// finishedAt is nil until the delivery is completed or cancelled
	finishedAt *time.Time
	// odometer is the closing reading, only set on completion
	odometer *int
	// legs are kept in creation order
	legs      []*Leg
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewDelivery creates a scheduled delivery without legs.
//
// Parameters:
//   - id: identifier of the new delivery
//   - carrierID: the carrier running it, normally the truck's owner
//   - truckID: the truck it runs on
//   - driverName: optional, surrounding whitespace is trimmed
//   - now: creation time, stored in UTC
//
// Returns a validation error, joined over all invalid identifiers, when any
// id is the zero UUID.
func NewDelivery(id, carrierID, truckID kernel.UUID, driverName string, now time.Time) (*Delivery, error) {
	return RestoreDelivery(id, carrierID, truckID, driverName, StateScheduled, nil, nil, nil, nil, now)
}

// RestoreDelivery rebuilds a delivery and its legs from persistence.
// It applies the same checks as NewDelivery plus a state and leg
// validation, and raises no domain events.
func RestoreDelivery(
	id, carrierID, truckID kernel.UUID,
	driverName string,
	state State,
	startedAt, finishedAt *time.Time,
	odometer *int,
	legs []*Leg,
	createdAt time.Time,
) (*Delivery, error) {
	d := &Delivery{
		driverName: strings.TrimSpace(driverName),
		startedAt:  startedAt,
		finishedAt: finishedAt,
		odometer:   odometer,
		createdAt:  createdAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&d.id, id),
		setID(&d.carrierID, carrierID),
		setID(&d.truckID, truckID),
		d.setState(state),
		d.setLegs(legs),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate reports whether d was built by NewDelivery or RestoreDelivery.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) CarrierID() kernel.UUID {
	return d.carrierID
}

func (d *Delivery) TruckID() kernel.UUID {
	return d.truckID
}

// DriverName returns the assigned driver, or "" when none was given.
func (d *Delivery) DriverName() string {
	return d.driverName
}

func (d *Delivery) State() State {
	return d.state
}

// StartedAt returns when the delivery went in_progress, nil while scheduled.
func (d *Delivery) StartedAt() *time.Time {
	return d.startedAt
}

// FinishedAt returns the completion or cancellation time.
func (d *Delivery) FinishedAt() *time.Time {
	return d.finishedAt
}

// Odometer returns the closing reading of a completed delivery.
func (d *Delivery) Odometer() *int {
	return d.odometer
}

func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// Legs returns all legs ordered by creation.
func (d *Delivery) Legs() []*Leg {
	return slices.Clone(d.legs)
}

// PendingLegs returns the legs that are neither delivered nor failed.
func (d *Delivery) PendingLegs() []*Leg {
	var out []*Leg
	for _, l := range d.legs {
		if l.IsPending() {
			out = append(out, l)
		}
	}
	return out
}

// Leg finds a leg of this delivery by id.
func (d *Delivery) Leg(id kernel.UUID) (*Leg, error) {
	for _, l := range d.legs {
		if l.ID().IsEqual(id) {
			return l, nil
		}
	}
	return nil, errs.NewObjectNotFoundErrorWithCause("leg", id, ErrLegNotFound)
}

// OpenLeg returns the most recent pending leg of shipmentID on this delivery.
func (d *Delivery) OpenLeg(shipmentID kernel.UUID) *Leg {
	for i := len(d.legs) - 1; i >= 0; i-- {
		l := d.legs[i]
		if l.ShipmentID().IsEqual(shipmentID) && l.IsPending() {
			return l
		}
	}
	return nil
}

// BelongsTo reports whether carrierID runs this delivery. Only the running
// carrier may change it.
func (d *Delivery) BelongsTo(carrierID kernel.UUID) bool {
	return d.carrierID.IsEqual(carrierID)
}

// EnsureLeg returns the open leg of shipmentID, creating a new pending leg
// with the given addresses when there is none. The second result reports
// whether a leg was created.
func (d *Delivery) EnsureLeg(
	legID, shipmentID kernel.UUID,
	sender, receiver kernel.Address,
	now time.Time,
) (*Leg, bool, error) {
	if !d.state.IsActive() {
		return nil, false, errs.NewPreconditionFailedError(fmt.Sprintf("cannot add legs to a %s delivery", d.state))
	}
	if open := d.OpenLeg(shipmentID); open != nil {
		return open, false, nil
	}

	leg, err := NewLeg(legID, d.id, shipmentID, sender, receiver, now)
	if err != nil {
		return nil, false, err
	}
	d.legs = append(d.legs, leg)
	d.RaiseDomainEvent(LegAddressesChanged{DeliveryID: d.id, LegID: leg.ID()})
	return leg, true, nil
}

// LoadShipment stamps loaded_at on the open leg of shipmentID.
func (d *Delivery) LoadShipment(shipmentID kernel.UUID, now time.Time) (*Leg, error) {
	leg := d.OpenLeg(shipmentID)
	if leg == nil {
		return nil, errs.NewObjectNotFoundErrorWithCause("open leg of shipment", shipmentID, ErrLegNotFound)
	}
	if err := leg.markLoaded(now); err != nil {
		return nil, err
	}
	return leg, nil
}

// Start promotes a scheduled delivery to in_progress and stamps startedAt.
// Any other state is rejected with a precondition error; see State.Start.
func (d *Delivery) Start(now time.Time) error {
	next, err := d.state.Start()
	if err != nil {
		return err
	}
	at := now.UTC()
	d.state = next
	d.startedAt = &at
	return nil
}

// Complete closes an in_progress delivery with the truck's closing
// odometer reading.
//
// Business rules:
//   - only an in_progress delivery can be completed
//   - it fails with ErrDeliveryHasOpenLegs while any leg is still pending;
//     deliver or fail those legs first
//   - the odometer is recorded as given; checking it against the truck's
//     mileage is the truck's job
func (d *Delivery) Complete(odometer int, now time.Time) error {
	next, err := d.state.Complete()
	if err != nil {
		return err
	}
	if len(d.PendingLegs()) > 0 {
		return ErrDeliveryHasOpenLegs
	}
	at := now.UTC()
	d.state = next
	d.finishedAt = &at
	d.odometer = &odometer
	return nil
}

// Cancel aborts the run. Every pending leg fails and the ids of the affected
// shipments are returned so the caller can release them from the truck.
func (d *Delivery) Cancel(now time.Time) ([]kernel.UUID, error) {
	next, err := d.state.Cancel()
	if err != nil {
		return nil, err
	}

	var released []kernel.UUID
	for _, l := range d.PendingLegs() {
		if err = l.markFailed(CancelledLegReason); err != nil {
			return nil, err
		}
		released = append(released, l.ShipmentID())
	}

	at := now.UTC()
	d.state = next
	d.finishedAt = &at
	return released, nil
}

// DeliverShipment marks the open leg of shipmentID delivered and raises
// ShipmentDelivered. It returns nil without error when the shipment has no
// open leg on this delivery.
func (d *Delivery) DeliverShipment(shipmentID kernel.UUID, now time.Time) (*Leg, error) {
	leg := d.OpenLeg(shipmentID)
	if leg == nil {
		return nil, nil
	}
	if err := leg.markDelivered(now); err != nil {
		return nil, err
	}
	d.RaiseDomainEvent(ShipmentDelivered{DeliveryID: d.id, LegID: leg.ID(), ShipmentID: shipmentID})
	return leg, nil
}

// FailLeg records a failed attempt. The leg keeps loaded_at and never gets
// delivered_at.
func (d *Delivery) FailLeg(legID kernel.UUID, reason string) (*Leg, error) {
	leg, err := d.Leg(legID)
	if err != nil {
		return nil, err
	}
	if err = leg.markFailed(reason); err != nil {
		return nil, err
	}
	return leg, nil
}

// ChangeLegAddresses updates the addresses of a pending leg and asks for
// them to be geocoded again.
func (d *Delivery) ChangeLegAddresses(legID kernel.UUID, sender, receiver kernel.Address) (*Leg, error) {
	leg, err := d.Leg(legID)
	if err != nil {
		return nil, err
	}
	if err = leg.changeAddresses(sender, receiver); err != nil {
		return nil, err
	}
	d.RaiseDomainEvent(LegAddressesChanged{DeliveryID: d.id, LegID: leg.ID()})
	return leg, nil
}

func (d *Delivery) setState(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	d.state = s
	return nil
}

func (d *Delivery) setLegs(legs []*Leg) error {
	d.legs = make([]*Leg, 0, len(legs))
	for _, l := range legs {
		if err := l.Validate(); err != nil {
			return err
		}
		if !l.DeliveryID().IsEqual(d.id) {
			return errs.NewValueIsInvalidErrorWithCause("leg",
				fmt.Errorf("leg %s belongs to delivery %s", l.ID(), l.DeliveryID()))
		}
		d.legs = append(d.legs, l)
	}
	slices.SortStableFunc(d.legs, func(a, b *Leg) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return nil
}
