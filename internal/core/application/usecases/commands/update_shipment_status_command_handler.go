package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/metrics"
)

// UpdateShipmentStatusCommandHandler applies a status chosen by carrier
// staff. The open leg is delivered only when the status actually changes
// and the new one is closed.
type UpdateShipmentStatusCommandHandler struct {
	uowFactory LifecycleUoWFactory
	applier    services.StatusApplier
}

// NewUpdateShipmentStatusCommandHandler creates a handler backed by the
// lifecycle unit of work.
func NewUpdateShipmentStatusCommandHandler(uowFactory LifecycleUoWFactory) UpdateShipmentStatusCommandHandler {
	return UpdateShipmentStatusCommandHandler{uowFactory: uowFactory, applier: services.NewStatusApplier()}
}

// Handle returns the change the status made. The status must be in the
// carrier's own catalog; an id from another carrier is reported as not
// found.
func (h UpdateShipmentStatusCommandHandler) Handle(
	ctx context.Context,
	command UpdateShipmentStatusCommand,
) (change services.StatusChange, err error) {
	defer func() {
		metrics.ObserveOperation("update_status", err)
	}()

	if err = command.Validate(); err != nil {
		return services.StatusChange{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return services.StatusChange{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	s, err := uow.ShipmentRepository().GetForUpdate(ctx, command.ShipmentID())
	if err != nil {
		return services.StatusChange{}, err
	}
	if !s.OwnedBy(command.CarrierID()) {
		return services.StatusChange{}, shipment.ErrShipmentNotOwned
	}

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return services.StatusChange{}, err
	}
	status, ok := rulebook.Status(command.StatusID())
	if !ok {
		return services.StatusChange{}, errs.NewObjectNotFoundError("status", command.StatusID())
	}

	change, err = h.applier.Apply(s, status)
	if err != nil {
		return services.StatusChange{}, err
	}
	if change.EnteredClosed {
		if err = deliverOpenLeg(ctx, uow, s, time.Now()); err != nil {
			return services.StatusChange{}, err
		}
	}

	if err = uow.ShipmentRepository().Update(ctx, s); err != nil {
		return services.StatusChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.StatusChange{}, err
	}
	return change, nil
}
