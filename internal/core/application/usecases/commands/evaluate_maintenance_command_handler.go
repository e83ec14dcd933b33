package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"
)

// EvaluateMaintenanceCommandHandler deactivates the truck when the policy
// says it is due. Inactive trucks and trucks on a run are left alone; the
// run's Close evaluates them.
type EvaluateMaintenanceCommandHandler struct {
	uowFactory LifecycleUoWFactory
	policy     services.MaintenancePolicy
}

func NewEvaluateMaintenanceCommandHandler(
	uowFactory LifecycleUoWFactory,
	policy services.MaintenancePolicy,
) EvaluateMaintenanceCommandHandler {
	return EvaluateMaintenanceCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle reports whether the truck was taken out of service.
func (h EvaluateMaintenanceCommandHandler) Handle(ctx context.Context, command EvaluateMaintenanceCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	t, err := uow.TruckRepository().GetForUpdate(ctx, command.TruckID())
	if err != nil {
		return false, err
	}
	if !t.Active() {
		return false, nil
	}
	busy, err := uow.DeliveryRepository().HasInProgress(ctx, t.ID())
	if err != nil {
		return false, err
	}
	if busy {
		return false, nil
	}

	history, err := uow.FormRepository().History(ctx, t.ID())
	if err != nil {
		return false, err
	}
	if !h.policy.Evaluate(t, history, time.Now()) {
		return false, nil
	}

	if err = uow.TruckRepository().Update(ctx, t); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	metrics.TrucksDeactivatedTotal.Inc()
	return true, nil
}
