package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"
)

// DeliverShipmentCommandHandler resolves the delivered event and routes the
// result through the same path as an explicit status update. Without a
// delivered rule nothing happens.
type DeliverShipmentCommandHandler struct {
	uowFactory LifecycleUoWFactory
	applier    services.StatusApplier
}

func NewDeliverShipmentCommandHandler(uowFactory LifecycleUoWFactory) DeliverShipmentCommandHandler {
	return DeliverShipmentCommandHandler{uowFactory: uowFactory, applier: services.NewStatusApplier()}
}

// Handle returns the zero-effect change and writes nothing when the
// delivered rule is missing or leaves the status as it was.
func (h DeliverShipmentCommandHandler) Handle(
	ctx context.Context,
	command DeliverShipmentCommand,
) (change services.StatusChange, err error) {
	defer func() {
		metrics.ObserveOperation("deliver", err)
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

	change, err = h.applier.ApplyEvent(s, rulebook, carrier.EventDelivered)
	if err != nil {
		return services.StatusChange{}, err
	}
	if !change.Changed {
		return change, nil
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
