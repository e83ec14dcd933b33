package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"
)

// CloseDeliveryResult carries the truck's new mileage and whether the
// maintenance policy took the truck off the road.
type CloseDeliveryResult struct {
	Mileage        int
	MaintenanceDue bool
}

// CloseDeliveryCommandHandler implements Close. Truck mileage, the
// maintenance decision and the delivery state are written in one
// transaction; any failure leaves all three untouched.
//
// Business rules:
//   - only the owning carrier may close (ErrDeliveryNotOwned)
//   - the delivery must be in_progress with no pending legs
//     (delivery.ErrDeliveryHasOpenLegs)
//   - the odometer must exceed the truck's recorded mileage
//   - a truck due for maintenance is deactivated in the same transaction
//
// Example:
//
//	policy, _ := services.NewMaintenancePolicy(15000, 180*24*time.Hour)
//	handler := NewCloseDeliveryCommandHandler(uowFactory, policy)
//	result, err := handler.Handle(ctx, cmd)
type CloseDeliveryCommandHandler struct {
	uowFactory LifecycleUoWFactory
	policy     services.MaintenancePolicy
}

// NewCloseDeliveryCommandHandler creates a handler that evaluates trucks
// against policy at every close.
func NewCloseDeliveryCommandHandler(uowFactory LifecycleUoWFactory, policy services.MaintenancePolicy) CloseDeliveryCommandHandler {
	return CloseDeliveryCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle writes the truck before the delivery. The maintenance history is
// read before either write, so an error there leaves nothing to undo.
func (h CloseDeliveryCommandHandler) Handle(
	ctx context.Context,
	command CloseDeliveryCommand,
) (result CloseDeliveryResult, err error) {
	defer func() {
		metrics.ObserveOperation("close", err)
	}()

	if err = command.Validate(); err != nil {
		return CloseDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CloseDeliveryResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()

	d, t, err := lockDeliveryWithTruck(ctx, uow, command.CarrierID(), command.DeliveryID(), nil)
	if err != nil {
		return CloseDeliveryResult{}, err
	}

	if err = d.Complete(command.Odometer(), now); err != nil {
		return CloseDeliveryResult{}, err
	}
	if err = t.RecordOdometer(command.Odometer()); err != nil {
		return CloseDeliveryResult{}, err
	}

	history, err := uow.FormRepository().History(ctx, t.ID())
	if err != nil {
		return CloseDeliveryResult{}, err
	}
	due := h.policy.Evaluate(t, history, now)

	if err = uow.TruckRepository().Update(ctx, t); err != nil {
		return CloseDeliveryResult{}, err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return CloseDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CloseDeliveryResult{}, err
	}

	if due {
		metrics.TrucksDeactivatedTotal.Inc()
	}
	return CloseDeliveryResult{Mileage: t.Mileage(), MaintenanceDue: due}, nil
}
