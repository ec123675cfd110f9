// Package db opens the database, applies the schema and seeds demo data.
package db

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-quotes/internal/config"
	"github.com/diewo77/go-quotes/internal/models"
)

// ErrUnknownDriver is returned by Connect for a driver other than sqlite or postgres.
var ErrUnknownDriver = errors.New("unknown database driver")

// RetryDelay is the pause between two connection attempts.
var RetryDelay = 2 * time.Second

// Connect opens the configured database, retrying while it comes up, and
// checks connectivity with a ping.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, dsn, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	attempts := max(cfg.Retries, 1)
	var conn *gorm.DB
	for i := range attempts {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying",
			zap.Int("attempt", i+1), zap.Int("of", attempts), zap.Error(err))
		if i+1 < attempts {
			time.Sleep(RetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after %d attempts: %w", attempts, err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver), zap.String("dsn", MaskDSN(dsn)))
	return conn, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "sqlite", "":
		dsn := cfg.DSN()
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return sqlite.Open(dsn), dsn, nil
	case "postgres", "postgresql":
		dsn := NormalizeDSN(cfg.DSN())
		if dsn == "" {
			return nil, "", errors.New("postgres DSN is empty, check DATABASE_DSN or DB_* variables")
		}
		return postgres.Open(dsn), dsn, nil
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{&models.Item{}, &models.Client{}, &models.Quotation{}, &models.QuotationItem{}}
}

// Migrate applies the schema with gorm AutoMigrate.
func Migrate(conn *gorm.DB) error {
	for _, m := range Models() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"items", "clients", "quotations", "quotation_items"} {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
