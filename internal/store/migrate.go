package store

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs every pending migration.
func (s *SQLiteStore) Migrate() error {
	if s.db == nil {
		return fmt.Errorf("store: database not opened")
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("store: setting dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("store: running migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the schema's current migration version.
func (s *SQLiteStore) MigrationVersion() (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store: database not opened")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return 0, fmt.Errorf("store: setting dialect: %w", err)
	}
	return goose.GetDBVersion(s.db)
}
