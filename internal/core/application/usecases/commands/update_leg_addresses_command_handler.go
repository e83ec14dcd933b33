package commands

import (
	"context"
)

// UpdateLegAddressesCommandHandler rewrites the addresses of a pending leg.
// The delivery raises LegAddressesChanged, which schedules geocoding once
// the transaction commits.
type UpdateLegAddressesCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

func NewUpdateLegAddressesCommandHandler(uowFactory LifecycleUoWFactory) UpdateLegAddressesCommandHandler {
	return UpdateLegAddressesCommandHandler{uowFactory: uowFactory}
}

// Handle checks ownership on an unlocked read, then locks the delivery and
// applies the change. Only a pending leg can be edited.
func (h UpdateLegAddressesCommandHandler) Handle(ctx context.Context, command UpdateLegAddressesCommand) error {
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

	snapshot, err := uow.DeliveryRepository().FindByLeg(ctx, command.LegID())
	if err != nil {
		return err
	}
	if err = ensureDeliveryOwner(snapshot, command.CarrierID()); err != nil {
		return err
	}

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, snapshot.ID())
	if err != nil {
		return err
	}
	if _, err = d.ChangeLegAddresses(command.LegID(), command.Sender(), command.Receiver()); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
