package commands

import (
	"context"
	"strings"

	"freight/internal/core/domain/model/kernel"
)

// SetLegCoordinatesCommandHandler is called by the geocoding worker. A side
// whose address changed since the lookup was queued is skipped; the newer
// change has queued its own lookup.
type SetLegCoordinatesCommandHandler struct {
	uowFactory LifecycleUoWFactory
}

func NewSetLegCoordinatesCommandHandler(uowFactory LifecycleUoWFactory) SetLegCoordinatesCommandHandler {
	return SetLegCoordinatesCommandHandler{uowFactory: uowFactory}
}

// Handle stores the coordinates of every side whose address still matches
// the looked-up text, compared case-insensitively. It commits nothing when
// neither side matches.
func (h SetLegCoordinatesCommandHandler) Handle(ctx context.Context, command SetLegCoordinatesCommand) error {
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
	d, err := uow.DeliveryRepository().GetForUpdate(ctx, snapshot.ID())
	if err != nil {
		return err
	}
	leg, err := d.Leg(command.LegID())
	if err != nil {
		return err
	}

	sender := current(leg.Sender(), command.Sender())
	receiver := current(leg.Receiver(), command.Receiver())
	if sender == nil && receiver == nil {
		return nil
	}
	leg.SetCoordinates(sender, receiver)

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// current returns the coordinates when they belong to addr, nil otherwise.
func current(addr kernel.Address, geocoded GeocodedAddress) *kernel.Coordinates {
	if geocoded.Coordinates == nil || !strings.EqualFold(addr.Text(), strings.TrimSpace(geocoded.Text)) {
		return nil
	}
	return geocoded.Coordinates
}
