package cmd

import (
	"fmt"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/queue"
	"freight/internal/config"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
)

// PoolOptions converts the second-based pool settings to durations.
func PoolOptions(cfg config.DatabasePoolConfig) postgres.PoolOptions {
	return postgres.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeSeconds) * time.Second,
	}
}

func queueRedisOptions(cfg config.QueueConfig) queue.RedisOptions {
	return queue.RedisOptions{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB}
}

// provisionTenantCommand maps a configured tenant to its provisioning command.
func provisionTenantCommand(t config.TenantConfig) (commands.ProvisionTenantCommand, error) {
	carrierID, err := kernel.UUIDFromString(t.ID)
	if err != nil {
		return commands.ProvisionTenantCommand{}, fmt.Errorf("tenant %q: %w", t.Name, err)
	}

	statuses := make([]commands.TenantStatus, len(t.Statuses))
	for i, s := range t.Statuses {
		statuses[i] = commands.TenantStatus{
			Name:               s.Name,
			LockedForCustomers: s.LockedForCustomers,
			Closed:             s.Closed,
		}
	}

	rules := make(map[carrier.Event]string, len(t.Rules))
	for name, status := range t.Rules {
		event, err := carrier.ParseEvent(name)
		if err != nil {
			return commands.ProvisionTenantCommand{}, fmt.Errorf("tenant %q: %w", t.Name, err)
		}
		rules[event] = status
	}

	return commands.NewProvisionTenantCommand(carrierID, t.Name, statuses, rules)
}
