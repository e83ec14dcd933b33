package commands

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// ProvisionTenantCommandHandler applies tenant declarations at startup.
// Existing statuses are kept as they are; missing ones are added and every
// declared rule is upserted.
//
// Provisioning is idempotent: running it twice with the same declarations
// leaves the same catalog and rules. Declared status flags are not applied
// to a status that already exists.
//
// Example:
//
//	cmd, err := NewProvisionTenantCommand(carrierID, "Acme Freight",
//	    []TenantStatus{{Name: "Delivered", Closed: true}},
//	    map[carrier.Event]string{carrier.EventDelivered: "Delivered"},
//	)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("provision %s: %w", carrierID, err)
//	}
type ProvisionTenantCommandHandler struct {
	uowFactory TenantUoWFactory
	cache      ports.RulebookCache
}

// NewProvisionTenantCommandHandler creates the handler. cache may be nil.
func NewProvisionTenantCommandHandler(uowFactory TenantUoWFactory, cache ports.RulebookCache) ProvisionTenantCommandHandler {
	return ProvisionTenantCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle commits the declarations and then drops the carrier's cached
// resolutions. The cache is touched only after a successful commit.
func (h ProvisionTenantCommandHandler) Handle(ctx context.Context, command ProvisionTenantCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if err := h.provision(ctx, command); err != nil {
		return err
	}

	if h.cache != nil {
		return h.cache.Invalidate(ctx, command.CarrierID())
	}
	return nil
}

func (h ProvisionTenantCommandHandler) provision(ctx context.Context, command ProvisionTenantCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	carriers := uow.CarrierRepository()
	rulebooks := uow.RulebookRepository()

	existing, err := carriers.Get(ctx, command.CarrierID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		created, createErr := carrier.NewCarrier(command.CarrierID(), command.Name())
		if createErr != nil {
			return createErr
		}
		if err = carriers.Add(ctx, created); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = existing.Rename(command.Name()); err != nil {
			return err
		}
		if err = carriers.Update(ctx, existing); err != nil {
			return err
		}
	}

	rulebook, err := rulebooks.Get(ctx, command.CarrierID())
	if err != nil {
		return err
	}

	for _, declared := range command.Statuses() {
		if _, ok := rulebook.StatusByName(declared.Name); ok {
			continue
		}
		status, statusErr := carrier.NewStatus(kernel.NewUUID(), command.CarrierID(),
			declared.Name, declared.LockedForCustomers, declared.Closed)
		if statusErr != nil {
			return statusErr
		}
		if err = rulebook.AddStatus(status); err != nil {
			return err
		}
		if err = rulebooks.AddStatus(ctx, status); err != nil {
			return err
		}
	}

	for _, event := range carrier.Events() {
		statusName, declared := command.Rules()[event]
		if !declared {
			continue
		}

		var statusID *kernel.UUID
		if statusName != "" {
			status, _ := rulebook.StatusByName(statusName)
			id := status.ID()
			statusID = &id
		}
		if err = rulebook.Bind(event, statusID); err != nil {
			return err
		}
		rule, _ := rulebook.Rule(event)
		if err = rulebooks.SaveRule(ctx, command.CarrierID(), rule); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
