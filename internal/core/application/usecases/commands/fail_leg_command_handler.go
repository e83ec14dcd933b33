package commands

import (
	"context"
)

// FailLegCommandHandler marks a pending leg failed and takes the shipment
// off the truck, so the next Schedule opens a fresh leg for it.
type FailLegCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewFailLegCommandHandler creates a handler backed by the lifecycle unit of
// work.
func NewFailLegCommandHandler(uowFactory LifecycleUoWFactory) FailLegCommandHandler {
	return FailLegCommandHandler{uowFactory: uowFactory}
}

// Handle locks the shipment before the delivery, matching the order used by
// Schedule and Close. The shipment is written only when it still rides the
// delivery's truck.
//
// Errors:
//   - ErrDeliveryNotOwned when the leg's delivery belongs to another carrier
//   - a not-found error wrapping delivery.ErrLegNotFound for an unknown leg
//   - a precondition failure when the leg is no longer pending
func (h FailLegCommandHandler) Handle(ctx context.Context, command FailLegCommand) error {
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

	snapshot, err := uow.DeliveryRepository().FindByLeg(ctx, command.LegID())
	if err != nil {
		return err
	}
	if err = ensureDeliveryOwner(snapshot, command.CarrierID()); err != nil {
		return err
	}
	leg, err := snapshot.Leg(command.LegID())
	if err != nil {
		return err
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, leg.ShipmentID())
	if err != nil {
		return err
	}

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, snapshot.ID())
	if err != nil {
		return err
	}
	if _, err = d.FailLeg(command.LegID(), command.Reason()); err != nil {
		return err
	}

	if s.OnTruck(d.TruckID()) {
		s.ClearTruck()
		if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
			return err
		}
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
