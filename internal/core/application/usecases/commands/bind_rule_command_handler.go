package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/logger"

	"go.uber.org/zap"
)

type BindRuleCommandHandler struct {
	uowFactory TenantUoWFactory
	cache      ports.RulebookCache
}

// NewBindRuleCommandHandler creates the handler. cache may be nil.
func NewBindRuleCommandHandler(uowFactory TenantUoWFactory, cache ports.RulebookCache) BindRuleCommandHandler {
	return BindRuleCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle upserts the (carrier, event) rule and drops the carrier's cached
// resolutions once the change is committed.
func (h BindRuleCommandHandler) Handle(ctx context.Context, command BindRuleCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if err := h.bind(ctx, command); err != nil {
		return err
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, command.CarrierID()); err != nil {
			logger.Z().Warn("rulebook cache invalidation failed",
				zap.String("carrier_id", command.CarrierID().String()),
				zap.Error(err))
		}
	}
	return nil
}

func (h BindRuleCommandHandler) bind(ctx context.Context, command BindRuleCommand) error {
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

	rulebook, err := uow.RulebookRepository().Get(ctx, command.CarrierID())
	if err != nil {
		return err
	}
	if err = rulebook.Bind(command.Event(), command.StatusID()); err != nil {
		return err
	}

	rule, _ := rulebook.Rule(command.Event())
	if err = uow.RulebookRepository().SaveRule(ctx, command.CarrierID(), rule); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
