package postgres

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/migrations"
)

// Migrate applies every pending embedded migration
func Migrate(ctx context.Context, db *DB, log *logger.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrationStatus logs the state of every embedded migration
func MigrationStatus(ctx context.Context, db *DB, log *logger.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&gooseLogger{log: log})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return goose.StatusContext(ctx, db.DB.DB, ".")
}

// gooseLogger routes goose output through the application logger
type gooseLogger struct {
	log *logger.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}
