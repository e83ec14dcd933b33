package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"freight/internal/adapters/out/postgres/carrierrepo"
	"freight/internal/adapters/out/postgres/deliveryrepo"
	"freight/internal/adapters/out/postgres/formrepo"
	"freight/internal/adapters/out/postgres/ratingrepo"
	"freight/internal/adapters/out/postgres/rulebookrepo"
	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/adapters/out/postgres/truckrepo"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PoolOptions configures the database/sql connection pool. Zero values keep
// the driver defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to the database named by driver ("postgres" or "sqlite").
func Open(driver, dsn string, pool PoolOptions, logSQL bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	logLevel := gormlogger.Warn
	if logSQL {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyPool(sqlDB, pool)

	return db, nil
}

func applyPool(sqlDB *sql.DB, pool PoolOptions) {
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

// partialIndexes back invariants GORM tags cannot express. Both Postgres
// and SQLite accept partial indexes.
var partialIndexes = []string{
	// One scheduled delivery per truck.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_deliveries_truck_scheduled
		ON deliveries (truck_id) WHERE state = 'scheduled'`,
	// At most one in-progress delivery per truck.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_deliveries_truck_in_progress
		ON deliveries (truck_id) WHERE state = 'in_progress'`,
	// A shipment has at most one open leg.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_legs_shipment_pending
		ON legs (shipment_id) WHERE outcome = 'pending'`,
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&carrierrepo.CarrierDTO{},
		&rulebookrepo.StatusDTO{},
		&rulebookrepo.RuleDTO{},
		&truckrepo.TruckDTO{},
		&shipmentrepo.ShipmentDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.LegDTO{},
		&ratingrepo.RatingDTO{},
		&formrepo.FormDTO{},
	); err != nil {
		return err
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
