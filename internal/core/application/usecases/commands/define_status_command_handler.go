package commands

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
)

// DefineStatusCommandHandler adds statuses to a carrier's Status Catalog.
type DefineStatusCommandHandler struct {
	uowFactory TenantUoWFactory
}

// NewDefineStatusCommandHandler creates a handler backed by the tenant unit
// of work.
func NewDefineStatusCommandHandler(uowFactory TenantUoWFactory) DefineStatusCommandHandler {
	return DefineStatusCommandHandler{uowFactory: uowFactory}
}

// Handle adds the status and returns its id. Names are unique per carrier;
// a second status with the same name fails in Rulebook.AddStatus before any
// row is written.
func (h DefineStatusCommandHandler) Handle(ctx context.Context, command DefineStatusCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.CarrierRepository().Get(ctx, command.CarrierID()); err != nil {
		return kernel.UUID{}, err
	}

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return kernel.UUID{}, err
	}

	status, err := carrier.NewStatus(
		kernel.NewUUID(),
		command.CarrierID(),
		command.Name(),
		command.LockedForCustomers(),
		command.Closed(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = rulebook.AddStatus(status); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.RulebookRepository().AddStatus(ctx, status); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return status.ID(), nil
}
