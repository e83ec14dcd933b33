package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"
)

// ScheduleDeliveryResult reports the delivery the shipments were loaded on.
type ScheduleDeliveryResult struct {
	DeliveryID kernel.UUID
	// Created is true when no scheduled delivery existed for the truck.
	Created bool
	// Loaded lists the requested shipments the carrier owns. Shipments of
	// other carriers are skipped without error and never appear here.
	Loaded []kernel.UUID
}

// ScheduleDeliveryCommandHandler implements Schedule: owned shipments are
// loaded on the truck's scheduled delivery, which is created on first use.
//
// Business rules:
//   - the truck must belong to the carrier, be active and have no run in
//     progress (ErrTruckOnRun)
//   - requested shipments of other carriers are skipped; if none is left
//     the call fails with ErrNoShipmentsToSchedule
//   - each loaded shipment gets one pending leg, on this delivery only
//   - the carrier's loaded rule is applied to every loaded shipment
//   - the truck's capacity must hold everything on board afterwards
//
// The truck row is locked first, which serializes concurrent calls on the
// same truck; the partial unique index on scheduled deliveries backs this
// up. Either every owned shipment is loaded or nothing changes.
type ScheduleDeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
	applier    services.StatusApplier
	planner    services.LoadPlanner
}

// NewScheduleDeliveryCommandHandler creates a handler with the default
// status applier and load planner.
func NewScheduleDeliveryCommandHandler(uowFactory LifecycleUoWFactory) ScheduleDeliveryCommandHandler {
	return ScheduleDeliveryCommandHandler{
		uowFactory: uowFactory,
		applier:    services.NewStatusApplier(),
		planner:    services.NewLoadPlanner(),
	}
}

// Handle runs the whole schedule in one transaction. The delivery row is
// written before the shipment rows, and a failure at any step rolls back
// both. Loaded legs are counted only after a successful commit.
func (h ScheduleDeliveryCommandHandler) Handle(
	ctx context.Context,
	command ScheduleDeliveryCommand,
) (result ScheduleDeliveryResult, err error) {
	defer func() {
		metrics.ObserveOperation("schedule", err)
	}()

	if err = command.Validate(); err != nil {
		return ScheduleDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ScheduleDeliveryResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()
	shipments := uow.ShipmentRepository()

	t, err := lockIdleTruck(ctx, uow, command.CarrierID(), command.TruckID())
	if err != nil {
		return ScheduleDeliveryResult{}, err
	}

	candidates, err := shipments.GetManyForUpdate(ctx, command.ShipmentIDs())
	if err != nil {
		return ScheduleDeliveryResult{}, err
	}
	owned := make([]*shipment.Shipment, 0, len(candidates))
	for _, s := range candidates {
		if s.OwnedBy(command.CarrierID()) {
			owned = append(owned, s)
		}
	}
	if len(owned) == 0 {
		return ScheduleDeliveryResult{}, ErrNoShipmentsToSchedule
	}

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return ScheduleDeliveryResult{}, err
	}

	d, isNew, err := findOrCreateScheduled(ctx, uow, t, command.DriverName(), now)
	if err != nil {
		return ScheduleDeliveryResult{}, err
	}

	loaded := make([]kernel.UUID, 0, len(owned))
	for _, s := range owned {
		if err = ensureOpenLegHere(ctx, uow, d, s, now); err != nil {
			return ScheduleDeliveryResult{}, err
		}
		if _, err = d.LoadShipment(s.ID(), now); err != nil {
			return ScheduleDeliveryResult{}, err
		}
		if err = s.AssignTruck(t.ID()); err != nil {
			return ScheduleDeliveryResult{}, err
		}
		if _, err = h.applier.ApplyEvent(s, rulebook, carrier.EventLoaded); err != nil {
			return ScheduleDeliveryResult{}, err
		}
		loaded = append(loaded, s.ID())
	}

	onTruck, err := shipments.ListByTruck(ctx, t.ID())
	if err != nil {
		return ScheduleDeliveryResult{}, err
	}
	if err = h.planner.CheckCapacity(t, mergeShipments(onTruck, owned)); err != nil {
		return ScheduleDeliveryResult{}, err
	}

	if err = saveDelivery(ctx, uow, d, isNew); err != nil {
		return ScheduleDeliveryResult{}, err
	}
	for _, s := range owned {
		if err = shipments.Update(ctx, s); err != nil {
			return ScheduleDeliveryResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ScheduleDeliveryResult{}, err
	}

	metrics.LegsLoadedTotal.Add(float64(len(loaded)))
	return ScheduleDeliveryResult{DeliveryID: d.ID(), Created: isNew, Loaded: loaded}, nil
}

// mergeShipments returns the union of both lists keyed by id, preferring the
// in-memory versions from updated.
func mergeShipments(persisted, updated []*shipment.Shipment) []*shipment.Shipment {
	byID := make(map[kernel.UUID]*shipment.Shipment, len(persisted)+len(updated))
	for _, s := range persisted {
		byID[s.ID()] = s
	}
	for _, s := range updated {
		byID[s.ID()] = s
	}

	out := make([]*shipment.Shipment, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	return out
}
