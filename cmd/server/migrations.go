package main

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// runMigrations executes the given goose command against the embedded
// migration files.
func (app *application) runMigrations(command string) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(embeddedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(app.db, "migrations")
	case "down":
		return goose.Down(app.db, "migrations")
	case "status":
		return goose.Status(app.db, "migrations")
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
}
