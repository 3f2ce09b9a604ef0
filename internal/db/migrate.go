package db

import (
	"context"
	"embed"
	"fmt"

	"family-planner/pkg/logger"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Migrate applies the embedded schema migrations that have not run yet.
func Migrate(ctx context.Context, gormDB *gorm.DB, log logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("db: migrations applied")
	return nil
}

type gooseLogger struct {
	log logger.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

// Fatalf is only reached from goose's CLI paths; it logs without exiting.
func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Critical(fmt.Sprintf(format, v...))
}
