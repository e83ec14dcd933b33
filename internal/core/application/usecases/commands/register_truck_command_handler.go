package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/truck"
)

// RegisterTruckCommandHandler adds an active truck to a carrier's fleet.
type RegisterTruckCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewRegisterTruckCommandHandler creates a handler backed by the lifecycle
// unit of work.
func NewRegisterTruckCommandHandler(uowFactory LifecycleUoWFactory) RegisterTruckCommandHandler {
	return RegisterTruckCommandHandler{uowFactory: uowFactory}
}

// Handle checks that the carrier exists, then stores the truck with the
// current time as its commissioning date. The commissioning date is the
// maintenance baseline until the first inspection form is recorded.
func (h RegisterTruckCommandHandler) Handle(ctx context.Context, command RegisterTruckCommand) error {
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

	t, err := truck.NewTruck(
		command.TruckID(),
		command.CarrierID(),
		command.Plate(),
		command.Mileage(),
		command.Capacity(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.TruckRepository().Add(ctx, t); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
