// Package migrations embeds the schema migrations and applies them with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var files embed.FS

// New returns a migrator for databaseURL backed by the embedded migrations.
func New(databaseURL string, log zerolog.Logger) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration init: %w", err)
	}
	m.Log = &logger{log: log}
	return m, nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func Up(databaseURL string, log zerolog.Logger) error {
	m, err := New(databaseURL, log)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

type logger struct {
	log zerolog.Logger
}

func (l *logger) Printf(format string, v ...any) {
	l.log.Info().Str("component", "migrate").Msgf(format, v...)
}

func (l *logger) Verbose() bool { return false }
