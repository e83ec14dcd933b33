package commands

import (
	"context"

	"freight/internal/core/domain/model/carrier"
)

// CreateCarrierCommandHandler registers a carrier with an empty rating.
// It does not provision statuses or rules; ProvisionTenantCommandHandler
// does both in one transaction.
type CreateCarrierCommandHandler struct {
	uowFactory TenantUoWFactory
}

// NewCreateCarrierCommandHandler creates a handler backed by the tenant unit
// of work.
func NewCreateCarrierCommandHandler(uowFactory TenantUoWFactory) CreateCarrierCommandHandler {
	return CreateCarrierCommandHandler{uowFactory: uowFactory}
}

// Handle builds the carrier aggregate before opening the transaction, so an
// invalid name never reaches the database.
func (h CreateCarrierCommandHandler) Handle(ctx context.Context, command CreateCarrierCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	c, err := carrier.NewCarrier(command.CarrierID(), command.Name())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CarrierRepository().Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
