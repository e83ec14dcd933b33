package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/logger"
	"freight/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ShipmentFailure is a per-shipment status application error that did not
// abort the dispatch.
type ShipmentFailure struct {
	ShipmentID kernel.UUID
	Err        error
}

// InitiateDeliveryResult reports what a dispatch did to each shipment on
// board. Every shipment of the carrier on the truck appears in exactly one
// of Dispatched and Failures.
type InitiateDeliveryResult struct {
	DeliveryID kernel.UUID
	// Dispatched lists shipments that took the dispatched status, or had no
	// dispatched rule to apply.
	Dispatched []kernel.UUID
	// Failures lists shipments whose status could not be applied. They keep
	// their previous status and their pending leg, and ride the delivery
	// anyway.
	Failures []ShipmentFailure
}

// InitiateDeliveryCommandHandler implements Initiate: the truck's scheduled
// delivery, or a fresh one, goes in_progress with every carrier shipment
// that is on the truck.
//
// Business rules:
//   - the truck must belong to the carrier, be active and have no run in
//     progress
//   - shipments of other carriers that sit on the truck are ignored
//   - at least one carrier shipment must be aboard (ErrNoShipmentsToDispatch)
//   - a shipment with an open leg on another delivery aborts the dispatch
//     (ErrShipmentOnAnotherDelivery)
//
// Leg creation errors abort the whole transaction. Errors applying the
// dispatched status are collected per shipment in Failures and the delivery
// still starts. A failed shipment row is not written.
type InitiateDeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
	applier    services.StatusApplier
}

// NewInitiateDeliveryCommandHandler creates a handler backed by the
// lifecycle unit of work.
func NewInitiateDeliveryCommandHandler(uowFactory LifecycleUoWFactory) InitiateDeliveryCommandHandler {
	return InitiateDeliveryCommandHandler{
		uowFactory: uowFactory,
		applier:    services.NewStatusApplier(),
	}
}

// Handle dispatches the truck. A returned error means nothing was written;
// a nil error with non-empty Failures means the delivery started but some
// shipments kept their status. Each failure is also logged at warn level.
func (h InitiateDeliveryCommandHandler) Handle(
	ctx context.Context,
	command InitiateDeliveryCommand,
) (result InitiateDeliveryResult, err error) {
	defer func() {
		metrics.ObserveOperation("initiate", err)
	}()

	if err = command.Validate(); err != nil {
		return InitiateDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return InitiateDeliveryResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()
	shipments := uow.ShipmentRepository()

	t, err := lockIdleTruck(ctx, uow, command.CarrierID(), command.TruckID())
	if err != nil {
		return InitiateDeliveryResult{}, err
	}

	d, isNew, err := findOrCreateScheduled(ctx, uow, t, command.DriverName(), now)
	if err != nil {
		return InitiateDeliveryResult{}, err
	}

	onTruck, err := shipments.ListByTruck(ctx, t.ID())
	if err != nil {
		return InitiateDeliveryResult{}, err
	}
	aboard := make([]*shipment.Shipment, 0, len(onTruck))
	for _, s := range onTruck {
		if s.OwnedBy(command.CarrierID()) {
			aboard = append(aboard, s)
		}
	}
	if len(aboard) == 0 {
		return InitiateDeliveryResult{}, ErrNoShipmentsToDispatch
	}

	for _, s := range aboard {
		if err = ensureOpenLegHere(ctx, uow, d, s, now); err != nil {
			return InitiateDeliveryResult{}, err
		}
	}

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return InitiateDeliveryResult{}, err
	}

	result.DeliveryID = d.ID()
	for _, s := range aboard {
		if _, applyErr := h.applier.ApplyEvent(s, rulebook, carrier.EventDispatched); applyErr != nil {
			logger.Z().Warn("dispatched status not applied",
				zap.String("shipment_id", s.ID().String()),
				zap.String("delivery_id", d.ID().String()),
				zap.Error(applyErr))
			result.Failures = append(result.Failures, ShipmentFailure{ShipmentID: s.ID(), Err: applyErr})
			continue
		}
		if err = shipments.Update(ctx, s); err != nil {
			return InitiateDeliveryResult{}, err
		}
		result.Dispatched = append(result.Dispatched, s.ID())
	}

	if err = d.Start(now); err != nil {
		return InitiateDeliveryResult{}, err
	}
	if err = saveDelivery(ctx, uow, d, isNew); err != nil {
		return InitiateDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return InitiateDeliveryResult{}, err
	}
	return result, nil
}
