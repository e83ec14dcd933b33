package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"freight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: "9090"
database:
  driver: sqlite
  dsn: "file:freight?mode=memory"
maintenance:
  mileage_interval: 5000
  interval_days: 30
tenants:
  - id: 7b0d3c8e-8f2a-4f1e-9d3c-2a1b0c9d8e7f
    name: Acme Freight
    statuses:
      - name: Loaded
        locked_for_customers: true
      - name: Delivered
        closed: true
    rules:
      loaded: Loaded
      delivered: Delivered
      claimed: ""
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_ReadsFileAndDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sample))

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Queue.Concurrency)
	assert.Equal(t, 300*time.Second, cfg.Redis.RuleTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Maintenance.Interval())

	require.Len(t, cfg.Tenants, 1)
	tenant := cfg.Tenants[0]
	assert.Equal(t, "Acme Freight", tenant.Name)
	require.Len(t, tenant.Statuses, 2)
	assert.True(t, tenant.Statuses[0].LockedForCustomers)
	assert.True(t, tenant.Statuses[1].Closed)
	assert.Equal(t, "Loaded", tenant.Rules["loaded"])
	assert.Contains(t, tenant.Rules, "claimed")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MAINTENANCE_MILEAGE_INTERVAL", "2500")

	cfg, err := config.Load(writeConfig(t, sample))

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, 2500, cfg.Maintenance.MileageInterval)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "0 0 * * * *", cfg.Jobs.MaintenanceSweepSchedule)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	body := `
database:
  driver: mysql
tenants:
  - id: a
    name: A
  - id: a
    name: B
`
	_, err := config.Load(writeConfig(t, body))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "duplicate id")
}
