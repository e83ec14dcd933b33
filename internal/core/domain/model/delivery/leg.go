package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrLegIsNotConstructed is returned when using a zero-value or nil Leg.
var ErrLegIsNotConstructed = errs.NewValueIsRequiredError("Leg must be created via NewLeg constructor")

// Outcome is the result of a leg attempt.
type Outcome string

// Leg outcomes. Pending is the only outcome a leg ever leaves.
const (
	OutcomePending   Outcome = "pending"
	OutcomeFailed    Outcome = "failed"
	OutcomeDelivered Outcome = "delivered"
)

// Validate rejects values outside the three known outcomes.
func (o Outcome) Validate() error {
	switch o {
	case OutcomePending, OutcomeFailed, OutcomeDelivered:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("leg outcome", fmt.Errorf("%q is not a leg outcome", string(o)))
	}
}

// Leg is one attempted hand-off of a shipment within a delivery. Legs are
// entities of the Delivery aggregate and are only changed through it.
//
// Invariants:
//   - deliveryID and shipmentID never change
//   - deliveredAt is set if and only if the outcome is delivered
//   - a leg failed through the aggregate always carries a failure reason
//   - a leg that left pending never returns to it, and its addresses freeze
//
// The sender and receiver addresses are copied from the shipment when the
// leg is created and may be edited while the leg is pending. Coordinates on
// them are filled in asynchronously by the geocoder.
type Leg struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	shipmentID kernel.UUID
	sender     kernel.Address
	receiver   kernel.Address
	// loadedAt is stamped when the shipment was put on the truck
	loadedAt *time.Time
	// deliveredAt stays nil forever for failed legs
	deliveredAt   *time.Time
	outcome       Outcome
	failureReason string
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

// NewLeg creates a pending leg with no timestamps besides createdAt.
func NewLeg(
	id, deliveryID, shipmentID kernel.UUID,
	sender, receiver kernel.Address,
	createdAt time.Time,
) (*Leg, error) {
	return RestoreLeg(id, deliveryID, shipmentID, sender, receiver, nil, nil, OutcomePending, "", createdAt)
}

// RestoreLeg rebuilds a leg from persistence.
func RestoreLeg(
	id, deliveryID, shipmentID kernel.UUID,
	sender, receiver kernel.Address,
	loadedAt, deliveredAt *time.Time,
	outcome Outcome,
	failureReason string,
	createdAt time.Time,
) (*Leg, error) {
	l := &Leg{
		loadedAt:      loadedAt,
		deliveredAt:   deliveredAt,
		failureReason: failureReason,
		createdAt:     createdAt.UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&l.id, id),
		setID(&l.deliveryID, deliveryID),
		setID(&l.shipmentID, shipmentID),
		l.setAddresses(sender, receiver),
		l.setOutcome(outcome),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// Validate reports whether l was built by NewLeg or RestoreLeg.
func (l *Leg) Validate() error {
	if l == nil {
		return ErrLegIsNotConstructed
	}
	return l.guard.Validate(ErrLegIsNotConstructed)
}

func (l *Leg) ID() kernel.UUID {
	return l.id
}

func (l *Leg) DeliveryID() kernel.UUID {
	return l.deliveryID
}

func (l *Leg) ShipmentID() kernel.UUID {
	return l.shipmentID
}

func (l *Leg) Sender() kernel.Address {
	return l.sender
}

func (l *Leg) Receiver() kernel.Address {
	return l.receiver
}

// LoadedAt is nil until the shipment is loaded onto the truck.
func (l *Leg) LoadedAt() *time.Time {
	return l.loadedAt
}

// DeliveredAt is set only for a delivered leg.
func (l *Leg) DeliveredAt() *time.Time {
	return l.deliveredAt
}

func (l *Leg) Outcome() Outcome {
	return l.outcome
}

// FailureReason is empty unless the leg failed.
func (l *Leg) FailureReason() string {
	return l.failureReason
}

func (l *Leg) CreatedAt() time.Time {
	return l.createdAt
}

// IsPending reports whether the leg has no outcome yet. Only pending legs
// accept address changes.
func (l *Leg) IsPending() bool {
	return l.outcome == OutcomePending
}

func (l *Leg) IsDelivered() bool {
	return l.outcome == OutcomeDelivered
}

// SetCoordinates attaches geocoding results. Nil leaves a side untouched.
// Coordinates are owned by the geocoding collaborator, so they may be set
// on legs in any outcome.
func (l *Leg) SetCoordinates(sender, receiver *kernel.Coordinates) {
	if sender != nil {
		l.sender = l.sender.WithCoordinates(*sender)
	}
	if receiver != nil {
		l.receiver = l.receiver.WithCoordinates(*receiver)
	}
}

func (l *Leg) markLoaded(now time.Time) error {
	if !l.IsPending() {
		return errs.NewPreconditionFailedError(fmt.Sprintf("leg %s is %s", l.id, l.outcome))
	}
	at := now.UTC()
	l.loadedAt = &at
	return nil
}

func (l *Leg) markDelivered(now time.Time) error {
	if !l.IsPending() {
		return errs.NewPreconditionFailedError(fmt.Sprintf("leg %s is %s", l.id, l.outcome))
	}
	at := now.UTC()
	l.deliveredAt = &at
	l.outcome = OutcomeDelivered
	return nil
}

func (l *Leg) markFailed(reason string) error {
	if !l.IsPending() {
		return errs.NewPreconditionFailedError(fmt.Sprintf("leg %s is %s", l.id, l.outcome))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("failure reason")
	}
	l.outcome = OutcomeFailed
	l.failureReason = reason
	return nil
}

func (l *Leg) changeAddresses(sender, receiver kernel.Address) error {
	if !l.IsPending() {
		return errs.NewPreconditionFailedError(fmt.Sprintf("addresses of a %s leg are frozen", l.outcome))
	}
	return l.setAddresses(sender, receiver)
}

func (l *Leg) setAddresses(sender, receiver kernel.Address) error {
	if err := errors.Join(sender.Validate(), receiver.Validate()); err != nil {
		return err
	}
	l.sender = sender
	l.receiver = receiver
	return nil
}

func (l *Leg) setOutcome(o Outcome) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if (o == OutcomeDelivered) != (l.deliveredAt != nil) {
		return errs.NewValueIsInvalidErrorWithCause("leg outcome",
			fmt.Errorf("outcome %s is inconsistent with delivered_at", o))
	}
	l.outcome = o
	return nil
}

func setID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
