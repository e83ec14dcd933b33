package commands

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/services"
)

// ClaimShipmentCommandHandler assigns the shipment to the carrier and applies
// the carrier's claimed rule, if any.
type ClaimShipmentCommandHandler struct {
	uowFactory LifecycleUoWFactory
	applier    services.StatusApplier
}

// NewClaimShipmentCommandHandler creates a handler backed by the lifecycle
// unit of work.
func NewClaimShipmentCommandHandler(uowFactory LifecycleUoWFactory) ClaimShipmentCommandHandler {
	return ClaimShipmentCommandHandler{uowFactory: uowFactory, applier: services.NewStatusApplier()}
}

// Handle is idempotent: claiming a shipment the carrier already owns
// returns nil and writes nothing. A shipment owned by another carrier is
// refused with shipment.ErrShipmentAlreadyClaimed. The claimed rule is
// optional; without it the shipment keeps no status.
func (h ClaimShipmentCommandHandler) Handle(ctx context.Context, command ClaimShipmentCommand) error {
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

	if _, err := uow.CarrierRepository().Get(ctx, command.CarrierID()); err != nil {
		return err
	}

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, command.ShipmentID())
	if err != nil {
		return err
	}
	if s.OwnedBy(command.CarrierID()) {
		return nil
	}
	if err = s.Claim(command.CarrierID()); err != nil {
		return err
	}

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return err
	}
	if _, err = h.applier.ApplyEvent(s, rulebook, carrier.EventClaimed); err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
