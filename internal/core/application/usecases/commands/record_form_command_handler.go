package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/form"
)

// RecordFormCommandHandler files an inspection or incident form against a
// truck or a delivery. Forms filed on a truck or on one of its deliveries
// feed the maintenance policy at the truck's next close.
type RecordFormCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

// NewRecordFormCommandHandler creates a handler backed by the lifecycle unit
// of work.
func NewRecordFormCommandHandler(uowFactory LifecycleUoWFactory) RecordFormCommandHandler {
	return RecordFormCommandHandler{uowFactory: uowFactory}
}

// Handle stores the form after checking that its subject exists.
func (h RecordFormCommandHandler) Handle(ctx context.Context, command RecordFormCommand) error {
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

	switch subject := command.Subject().(type) {
	case form.TruckSubject:
		if _, err := uow.TruckRepository().Get(ctx, subject.TruckID); err != nil {
			return err
		}
	case form.DeliverySubject:
		if _, err := uow.DeliveryRepository().Get(ctx, subject.DeliveryID); err != nil {
			return err
		}
	}

	f, err := form.NewForm(
		command.FormID(),
		command.Kind(),
		command.Subject(),
		command.Mileage(),
		command.Notes(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.FormRepository().Add(ctx, f); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
