package shipment

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// Domain errors for shipment operations.
var (
	// ErrShipmentIsNotConstructed is returned when using a zero-value or nil Shipment.
	ErrShipmentIsNotConstructed = errs.NewValueIsRequiredError("Shipment must be created via NewShipment constructor")
	// ErrShipmentAlreadyClaimed is returned when a second carrier tries to claim.
	ErrShipmentAlreadyClaimed = errs.NewPreconditionFailedError("shipment is already claimed by a carrier")
	// ErrShipmentNotOwned is returned when a carrier acts on a shipment it does not hold.
	ErrShipmentNotOwned = errs.NewPreconditionFailedError("shipment is not owned by the carrier")
)

// Shipment is the consignment aggregate. It knows who holds it right now
// (carrier, status, truck) but not its history; the legs on deliveries are
// the history.
//
// Invariants:
//   - statusID is nil while carrierID is nil
//   - a non-nil statusID references a status of carrierID
//   - truckID is only set while the shipment is owned
//   - dimensions, parties and deliverBy never change after creation
//
// Business rules:
//   - claiming is first come, first served; re-claiming by the owner is a no-op
//   - Release clears carrier, status and truck together, so the next
//     carrier starts from a clean slate
//   - a shipment is overdue once now is past deliverBy, whoever holds it
//
// Example:
//
//	s, err := NewShipment(kernel.NewUUID(), dims, sender, receiver, deliverBy)
//	if err != nil {
//	    return err
//	}
//	if err = s.Claim(carrierID); err != nil {
//	    return err // ErrShipmentAlreadyClaimed
//	}
type Shipment struct {
	id         kernel.UUID
	dimensions kernel.Dimensions
	sender     Party
	receiver   Party
	// carrierID is nil while the shipment is unclaimed
	carrierID *kernel.UUID
	// statusID points into the owning carrier's Status Catalog
	statusID *kernel.UUID
	// truckID is the truck the shipment is loaded on, if any
	truckID   *kernel.UUID
	deliverBy time.Time
	guard     guard.ConstructorGuard
}

// NewShipment creates an unclaimed shipment. The dimensions and both
// parties must be constructed values and deliverBy must not be zero; all
// violations are reported together.
func NewShipment(
	id kernel.UUID,
	dimensions kernel.Dimensions,
	sender, receiver Party,
	deliverBy time.Time,
) (*Shipment, error) {
	return RestoreShipment(id, dimensions, sender, receiver, deliverBy, nil, nil, nil)
}

// RestoreShipment rebuilds a shipment from persistence. It additionally
// rejects a status on an unowned shipment.
func RestoreShipment(
	id kernel.UUID,
	dimensions kernel.Dimensions,
	sender, receiver Party,
	deliverBy time.Time,
	carrierID, statusID, truckID *kernel.UUID,
) (*Shipment, error) {
	s := &Shipment{
		carrierID: carrierID,
		statusID:  statusID,
		truckID:   truckID,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setDimensions(dimensions),
		s.setParty("sender", &s.sender, sender),
		s.setParty("receiver", &s.receiver, receiver),
		s.setDeliverBy(deliverBy),
	); err != nil {
		return nil, err
	}

	if statusID != nil && carrierID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", errors.New("an unowned shipment has no status"))
	}

	return s, nil
}

// Validate reports whether s was built by NewShipment or RestoreShipment.
func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID {
	return s.id
}

func (s *Shipment) Dimensions() kernel.Dimensions {
	return s.dimensions
}

func (s *Shipment) Sender() Party {
	return s.sender
}

func (s *Shipment) Receiver() Party {
	return s.receiver
}

// CarrierID is nil while the shipment is unclaimed.
func (s *Shipment) CarrierID() *kernel.UUID {
	return s.carrierID
}

// StatusID is nil until a rule or a carrier assigns a status.
func (s *Shipment) StatusID() *kernel.UUID {
	return s.statusID
}

// TruckID is nil while the shipment is not assigned to a truck.
func (s *Shipment) TruckID() *kernel.UUID {
	return s.truckID
}

// DeliverBy is the deadline the overdue shipments job compares against.
func (s *Shipment) DeliverBy() time.Time {
	return s.deliverBy
}

// OwnedBy reports whether carrierID currently owns the shipment.
func (s *Shipment) OwnedBy(carrierID kernel.UUID) bool {
	return s.carrierID != nil && s.carrierID.IsEqual(carrierID)
}

// Claim hands an unclaimed shipment to a carrier. Claiming a shipment the
// carrier already owns succeeds without change; any other owner gets
// ErrShipmentAlreadyClaimed.
func (s *Shipment) Claim(carrierID kernel.UUID) error {
	if err := carrierID.Validate(); err != nil {
		return err
	}
	if s.carrierID != nil {
		if s.carrierID.IsEqual(carrierID) {
			return nil
		}
		return ErrShipmentAlreadyClaimed
	}
	s.carrierID = &carrierID
	return nil
}

// Release returns the shipment to the open market. Its status is dropped
// with the ownership.
func (s *Shipment) Release() {
	s.carrierID = nil
	s.statusID = nil
	s.truckID = nil
}

// ApplyStatus moves the shipment to status and reports whether the status
// actually changed. A status from another carrier's catalog is rejected as
// invalid input.
func (s *Shipment) ApplyStatus(status *carrier.Status) (bool, error) {
	if err := status.Validate(); err != nil {
		return false, err
	}
	if !s.OwnedBy(status.CarrierID()) {
		return false, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("status %s belongs to carrier %s which does not own shipment %s",
				status.ID(), status.CarrierID(), s.id))
	}
	if s.statusID != nil && s.statusID.IsEqual(status.ID()) {
		return false, nil
	}

	id := status.ID()
	s.statusID = &id
	return true, nil
}

// AssignTruck records the truck the shipment is loaded on. Only an owned
// shipment can be put on a truck.
func (s *Shipment) AssignTruck(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return err
	}
	if s.carrierID == nil {
		return ErrShipmentNotOwned
	}
	s.truckID = &truckID
	return nil
}

// ClearTruck takes the shipment off its truck after delivery, failure or
// cancellation.
func (s *Shipment) ClearTruck() {
	s.truckID = nil
}

// OnTruck reports whether the shipment is currently assigned to truckID.
func (s *Shipment) OnTruck(truckID kernel.UUID) bool {
	return s.truckID != nil && s.truckID.IsEqual(truckID)
}

// IsOverdue reports whether deliverBy has passed at now.
func (s *Shipment) IsOverdue(now time.Time) bool {
	return now.After(s.deliverBy)
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setDimensions(d kernel.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.dimensions = d
	return nil
}

func (s *Shipment) setParty(role string, dst *Party, p Party) error {
	if p.name == "" {
		return errs.NewValueIsRequiredError(role)
	}
	*dst = p
	return nil
}

func (s *Shipment) setDeliverBy(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("deliver_by")
	}
	s.deliverBy = t.UTC()
	return nil
}
