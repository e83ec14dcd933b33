package commands

import (
	"context"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/metrics"
)

// ReleaseShipmentCommandHandler ends a carrier's part of the chain. The
// shipment loses its carrier, status and truck, and becomes claimable by
// any carrier. Its past legs stay in the ledger untouched.
//
// Preconditions:
//   - the requesting carrier owns the shipment (shipment.ErrShipmentNotOwned)
//   - the shipment has no pending leg (ErrShipmentHasOpenLeg); fail or
//     deliver it first
//
// Example:
//
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrShipmentHasOpenLeg):
//	    // still loaded on a run
//	case err != nil:
//	    return err
//	}
type ReleaseShipmentCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

func NewReleaseShipmentCommandHandler(uowFactory LifecycleUoWFactory) ReleaseShipmentCommandHandler {
	return ReleaseShipmentCommandHandler{uowFactory: uowFactory}
}

// Handle locks the shipment, checks ownership and the absence of an open
// leg, then clears the ownership in one transaction.
func (h ReleaseShipmentCommandHandler) Handle(ctx context.Context, command ReleaseShipmentCommand) (err error) {
	defer func() {
		metrics.ObserveOperation("release", err)
	}()

	if err = command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, command.ShipmentID())
	if err != nil {
		return err
	}
	if !s.OwnedBy(command.CarrierID()) {
		return shipment.ErrShipmentNotOwned
	}

	open, err := uow.DeliveryRepository().FindByOpenLeg(ctx, s.ID())
	if err != nil {
		return err
	}
	if open != nil {
		return ErrShipmentHasOpenLeg
	}

	s.Release()
	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
