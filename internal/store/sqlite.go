package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go sqlite3 driver
)

// SQLiteStore implements Store using an embedded SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a store; call Open and InitSchema before use.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path. Use ":memory:" for an ephemeral
// store, typically in tests.
func (s *SQLiteStore) Open(path string) error {
	s.logger.Debug("opening store database", "path", path)

	dsn := path + "?_foreign_keys=on&_journal_mode=WAL"
	if path == ":memory:" {
		dsn = ":memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("store: opening database: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("store: pinging database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug("closing store database", "path", s.path)
	return s.db.Close()
}

// InitSchema brings the schema up to date via Migrate.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("store: database not opened")
	}
	return s.Migrate()
}

// DB returns the underlying connection, for tests and direct queries.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// SaveAxiom persists rec, minting an ID and timestamp if unset.
func (s *SQLiteStore) SaveAxiom(rec AxiomRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO axioms (id, idx, description, source, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Index, rec.Description, rec.Source, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: saving axiom: %w", err)
	}
	return nil
}

// ListAxioms returns every persisted axiom, ordered by its session
// index.
func (s *SQLiteStore) ListAxioms() ([]AxiomRecord, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, idx, description, source, created_at FROM axioms ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("store: listing axioms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []AxiomRecord
	for rows.Next() {
		var rec AxiomRecord
		if err := rows.Scan(&rec.ID, &rec.Index, &rec.Description, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scanning axiom: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating axioms: %w", err)
	}
	return out, nil
}

// SaveTheorem persists rec, minting an ID and timestamp if unset.
func (s *SQLiteStore) SaveTheorem(rec TheoremRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO theorems (id, idx, description, source, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Index, rec.Description, rec.Source, rec.Steps, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: saving theorem: %w", err)
	}
	return nil
}

// ListTheorems returns every persisted theorem, ordered by its session
// index.
func (s *SQLiteStore) ListTheorems() ([]TheoremRecord, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, idx, description, source, steps, created_at FROM theorems ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("store: listing theorems: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TheoremRecord
	for rows.Next() {
		var rec TheoremRecord
		if err := rows.Scan(&rec.ID, &rec.Index, &rec.Description, &rec.Source, &rec.Steps, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scanning theorem: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating theorems: %w", err)
	}
	return out, nil
}

var _ Store = (*SQLiteStore)(nil)
