package commands

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/delivery"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/metrics"
)

// Precondition failures shared by the lifecycle handlers. All of them match
// errs.ErrPreconditionFailed and map to 409 Conflict.
var (
	ErrNoShipmentsToSchedule     = errs.NewPreconditionFailedError("none of the shipments belongs to the carrier")
	ErrNoShipmentsToDispatch     = errs.NewPreconditionFailedError("truck carries no shipments of the carrier")
	ErrTruckOnRun                = errs.NewPreconditionFailedError("truck already has a delivery in progress")
	ErrShipmentOnAnotherDelivery = errs.NewPreconditionFailedError("shipment is loaded on another active delivery")
	ErrDeliveryNotOwned          = errs.NewPreconditionFailedError("delivery does not belong to the carrier")
	ErrShipmentHasOpenLeg        = errs.NewPreconditionFailedError("shipment still has an open leg")
)

// lockIdleTruck locks the truck row and checks that carrierID may start a
// new run with it.
func lockIdleTruck(ctx context.Context, uow LifecycleUoW, carrierID, truckID kernel.UUID) (*truck.Truck, error) {
	t, err := uow.TruckRepository().GetForUpdate(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if err = t.EnsureUsableBy(carrierID); err != nil {
		return nil, err
	}

	busy, err := uow.DeliveryRepository().HasInProgress(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrTruckOnRun
	}
	return t, nil
}

// findOrCreateScheduled returns the truck's scheduled delivery, building a
// new one when there is none. isNew tells the caller to Add instead of Update.
func findOrCreateScheduled(
	ctx context.Context,
	uow LifecycleUoW,
	t *truck.Truck,
	driverName string,
	now time.Time,
) (d *delivery.Delivery, isNew bool, err error) {
	d, err = uow.DeliveryRepository().FindScheduled(ctx, t.ID())
	if err != nil {
		return nil, false, err
	}
	if d != nil {
		return d, false, nil
	}

	d, err = delivery.NewDelivery(kernel.NewUUID(), t.CarrierID(), t.ID(), driverName, now)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// saveDelivery inserts or updates d as told by findOrCreateScheduled.
func saveDelivery(ctx context.Context, uow LifecycleUoW, d *delivery.Delivery, isNew bool) error {
	if isNew {
		return uow.DeliveryRepository().Add(ctx, d)
	}
	return uow.DeliveryRepository().Update(ctx, d)
}

// ensureOpenLegHere makes sure s has a pending leg on d and nowhere else.
func ensureOpenLegHere(ctx context.Context, uow LifecycleUoW, d *delivery.Delivery, s *shipment.Shipment, now time.Time) error {
	elsewhere, err := uow.DeliveryRepository().FindByOpenLeg(ctx, s.ID())
	if err != nil {
		return err
	}
	if elsewhere != nil && !elsewhere.ID().IsEqual(d.ID()) {
		return fmt.Errorf("%w: shipment %s, delivery %s", ErrShipmentOnAnotherDelivery, s.ID(), elsewhere.ID())
	}

	_, _, err = d.EnsureLeg(kernel.NewUUID(), s.ID(), s.Sender().Address(), s.Receiver().Address(), now)
	return err
}

// deliverOpenLeg closes the open leg of s, wherever it is, after s entered a
// closed status. The shipment leaves its truck.
func deliverOpenLeg(ctx context.Context, uow LifecycleUoW, s *shipment.Shipment, now time.Time) error {
	d, err := uow.DeliveryRepository().FindByOpenLeg(ctx, s.ID())
	if err != nil {
		return err
	}
	s.ClearTruck()
	if d == nil {
		return nil
	}

	leg, err := d.DeliverShipment(s.ID(), now)
	if err != nil {
		return err
	}
	if leg == nil {
		return nil
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}
	metrics.LegsDeliveredTotal.Inc()
	return nil
}

// lockDeliveryWithTruck locks the delivery's truck, then the shipments of its
// pending legs when lockedShipments is not nil, then the delivery itself.
//
// The delivery is first read without a lock to learn its truck and legs.
// Ownership is checked on that snapshot, so a foreign carrier never takes
// any row lock.
func lockDeliveryWithTruck(
	ctx context.Context,
	uow LifecycleUoW,
	carrierID, deliveryID kernel.UUID,
	lockedShipments map[kernel.UUID]*shipment.Shipment,
) (*delivery.Delivery, *truck.Truck, error) {
	deliveries := uow.DeliveryRepository()

	snapshot, err := deliveries.Get(ctx, deliveryID)
	if err != nil {
		return nil, nil, err
	}
	if err = ensureDeliveryOwner(snapshot, carrierID); err != nil {
		return nil, nil, err
	}

	t, err := uow.TruckRepository().GetForUpdate(ctx, snapshot.TruckID())
	if err != nil {
		return nil, nil, err
	}

	if lockedShipments != nil {
		ids := make([]kernel.UUID, 0)
		for _, l := range snapshot.PendingLegs() {
			ids = append(ids, l.ShipmentID())
		}
		shipments, lockErr := uow.ShipmentRepository().GetManyForUpdate(ctx, ids)
		if lockErr != nil {
			return nil, nil, lockErr
		}
		for _, s := range shipments {
			lockedShipments[s.ID()] = s
		}
	}

	d, err := deliveries.GetForUpdate(ctx, deliveryID)
	if err != nil {
		return nil, nil, err
	}
	return d, t, nil
}

func ensureDeliveryOwner(d *delivery.Delivery, carrierID kernel.UUID) error {
	if !d.BelongsTo(carrierID) {
		return ErrDeliveryNotOwned
	}
	return nil
}
