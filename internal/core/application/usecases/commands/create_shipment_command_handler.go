package commands

import (
	"context"

	"freight/internal/core/domain/model/shipment"
)

// CreateShipmentCommandHandler stores a new shipment in the open pool.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(
//	    kernel.NewUUID(), 120, 0.8,
//	    "Ann", "1 Sender Rd", "Bob", "2 Receiver St",
//	    time.Now().Add(48*time.Hour),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("create shipment: %w", err)
//	}
type CreateShipmentCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewCreateShipmentCommandHandler creates a handler backed by the lifecycle
// unit of work.
func NewCreateShipmentCommandHandler(uowFactory LifecycleUoWFactory) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{uowFactory: uowFactory}
}

// Handle adds the shipment without a carrier, a status or a truck. A
// duplicate identifier surfaces as the repository's conflict error.
func (h CreateShipmentCommandHandler) Handle(ctx context.Context, command CreateShipmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	s, err := shipment.NewShipment(
		command.ShipmentID(),
		command.Dimensions(),
		command.Sender(),
		command.Receiver(),
		command.DeliverBy(),
	)
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

	if err = uow.ShipmentRepository().Add(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
