// Package config loads service configuration from config.yml, the process
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"freight/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root of config.yml. Tenants are the only section without
// defaults.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Geocoder    GeocoderConfig    `mapstructure:"geocoder"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Jobs        JobsConfig        `mapstructure:"jobs"`
	Tenants     []TenantConfig    `mapstructure:"tenants"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

type DatabaseConfig struct {
	Driver      string             `mapstructure:"driver"` // postgres / sqlite
	DSN         string             `mapstructure:"dsn"`
	AutoMigrate bool               `mapstructure:"auto_migrate"`
	LogSQL      bool               `mapstructure:"log_sql"`
	Pool        DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig configures the rulebook cache. With Enabled false status
// resolution always reads the database.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	// RuleTTLSeconds bounds how long a resolved rule stays cached.
	RuleTTLSeconds int `mapstructure:"rule_ttl_seconds"`
}

func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c RedisConfig) RuleTTL() time.Duration {
	return time.Duration(c.RuleTTLSeconds) * time.Second
}

// QueueConfig configures the asynq task queue. With Enabled false domain
// events are dropped after commit and no worker is started.
type QueueConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	Concurrency int    `mapstructure:"concurrency"`
	Name        string `mapstructure:"name"`
}

func (c QueueConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c GeocoderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type MaintenanceConfig struct {
	// MileageInterval of 0 disables the mileage trigger.
	MileageInterval int `mapstructure:"mileage_interval"`
	// IntervalDays of 0 disables the time trigger.
	IntervalDays int `mapstructure:"interval_days"`
}

func (c MaintenanceConfig) Interval() time.Duration {
	return time.Duration(c.IntervalDays) * 24 * time.Hour
}

// JobsConfig holds cron expressions for the periodic jobs.
type JobsConfig struct {
	Enabled                  bool   `mapstructure:"enabled"`
	MaintenanceSweepSchedule string `mapstructure:"maintenance_sweep_schedule"`
	OverdueShipmentsSchedule string `mapstructure:"overdue_shipments_schedule"`
	OverdueShipmentsLimit    int    `mapstructure:"overdue_shipments_limit"`
}

// TenantConfig declares a carrier provisioned at startup.
type TenantConfig struct {
	ID       string               `mapstructure:"id"`
	Name     string               `mapstructure:"name"`
	Statuses []TenantStatusConfig `mapstructure:"statuses"`
	// Rules maps an event name to a status name. An empty status name keeps
	// the event unbound.
	Rules map[string]string `mapstructure:"rules"`
}

type TenantStatusConfig struct {
	Name               string `mapstructure:"name"`
	LockedForCustomers bool   `mapstructure:"locked_for_customers"`
	Closed             bool   `mapstructure:"closed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "freight.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost port=5432 user=freight password=freight dbname=freight sslmode=disable")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_sql", false)
	v.SetDefault("database.pool.max_open_conns", 20)
	v.SetDefault("database.pool.max_idle_conns", 5)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 1800)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 300)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "freight")
	v.SetDefault("redis.rule_ttl_seconds", 300)
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.name", "default")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "freight/1.0")
	v.SetDefault("geocoder.timeout_seconds", 10)
	v.SetDefault("maintenance.mileage_interval", 10000)
	v.SetDefault("maintenance.interval_days", 180)
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.maintenance_sweep_schedule", "0 0 * * * *")
	v.SetDefault("jobs.overdue_shipments_schedule", "0 */15 * * * *")
	v.SetDefault("jobs.overdue_shipments_limit", 100)
}

// Load reads config.yml from the given directories (the working directory
// and ./etc when none are given). Environment variables override file
// values, with dots replaced by underscores: SERVER_PORT, DATABASE_DSN.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./etc"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logger.Warnw("config_file_not_found", "fallback", "env_or_defaults")
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem at once, joined with errors.Join.
func (c *Config) Validate() error {
	var problems []error
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "postgresql", "sqlite":
	default:
		problems = append(problems, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		problems = append(problems, errors.New("database.dsn: required"))
	}
	if c.Maintenance.MileageInterval < 0 || c.Maintenance.IntervalDays < 0 {
		problems = append(problems, errors.New("maintenance: intervals must not be negative"))
	}
	seen := make(map[string]struct{}, len(c.Tenants))
	for i, t := range c.Tenants {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			problems = append(problems, fmt.Errorf("tenants[%d]: id and name are required", i))
			continue
		}
		if _, dup := seen[t.ID]; dup {
			problems = append(problems, fmt.Errorf("tenants[%d]: duplicate id %s", i, t.ID))
		}
		seen[t.ID] = struct{}{}
	}
	return errors.Join(problems...)
}
