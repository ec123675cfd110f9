package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/go-quotes/internal/config"
	"github.com/diewo77/go-quotes/internal/db"
	"github.com/diewo77/go-quotes/internal/server"
)

type startMode int

const (
	modeServe startMode = iota
	modeMigrateOnly
	modeSeedOnly
)

// App holds the database and the root handler of a running server.
type App struct {
	DB      *gorm.DB
	Handler http.Handler
}

// NewApp connects to the database, applies the schema and builds the router.
// It returns a nil App when mode asked to stop after migrating or seeding.
func NewApp(cfg *config.Config, log *zap.Logger, mode startMode) (*App, error) {
	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := migrate(cfg, conn, log); err != nil {
		return nil, err
	}
	if mode == modeMigrateOnly {
		log.Info("migrations completed successfully")
		return nil, closeDB(conn)
	}

	if cfg.App.Seed || mode == modeSeedOnly {
		if err := db.Seed(conn); err != nil {
			return nil, fmt.Errorf("seeding failed: %w", err)
		}
		log.Info("seeding completed")
	}
	if mode == modeSeedOnly {
		return nil, closeDB(conn)
	}

	return &App{DB: conn, Handler: server.New(conn, server.OptionsFrom(cfg), log)}, nil
}

// migrate runs golang-migrate SQL files for postgres when MIGRATIONS is set,
// and gorm AutoMigrate otherwise.
func migrate(cfg *config.Config, conn *gorm.DB, log *zap.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver == "postgres" {
		if err := db.RunSQLMigrations(cfg.Database.MigrationsDir, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Info("sql migrations applied", zap.String("dir", cfg.Database.MigrationsDir))
		return nil
	}
	if err := db.Migrate(conn); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func closeDB(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Close releases the database connection pool.
func (a *App) Close() error {
	return closeDB(a.DB)
}
