package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/metrics"
)

// CancelDeliveryCommandHandler aborts a scheduled or in_progress delivery.
// Its pending legs fail and their shipments are taken off the truck so the
// next Schedule starts a fresh leg.
type CancelDeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewCancelDeliveryCommandHandler creates a handler backed by the lifecycle
// unit of work.
func NewCancelDeliveryCommandHandler(uowFactory LifecycleUoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle locks the truck, the shipments of pending legs and the delivery in
// that order. A released shipment that already left the truck is not
// written again. The outcome is counted under the "cancel" operation label.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, command CancelDeliveryCommand) (err error) {
	defer func() {
		metrics.ObserveOperation("cancel", err)
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

	locked := make(map[kernel.UUID]*shipment.Shipment)
	d, _, err := lockDeliveryWithTruck(ctx, uow, command.CarrierID(), command.DeliveryID(), locked)
	if err != nil {
		return err
	}

	released, err := d.Cancel(time.Now())
	if err != nil {
		return err
	}

	for _, id := range released {
		s, ok := locked[id]
		if !ok || !s.OnTruck(d.TruckID()) {
			continue
		}
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
