// Package trace records simulation runs to SQLite: the state of every
// run cycle and every byte the UART bridge emitted, in one causal order.
package trace

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for run traces.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a trace database at the given path. Applies
// required pragmas and the schema automatically; safe to call on an
// existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect trace db: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY during recording.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply trace schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a new run row and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, model string, frequency uint32) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, model, frequency) VALUES (?, ?, ?)
	`, id, model, frequency)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// WriteCycle records the state produced by one run cycle.
func (s *Store) WriteCycle(ctx context.Context, runID string, seq int64, state string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (run_id, seq, state) VALUES (?, ?, ?)
	`, runID, seq, state)
	if err != nil {
		return fmt.Errorf("write cycle: %w", err)
	}
	return nil
}

// WriteUARTByte records one byte emitted on the UART bridge.
func (s *Store) WriteUARTByte(ctx context.Context, runID string, seq int64, value byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uart_bytes (run_id, seq, value) VALUES (?, ?, ?)
	`, runID, seq, value)
	if err != nil {
		return fmt.Errorf("write uart byte: %w", err)
	}
	return nil
}

// ReadStates returns the recorded cycle states for a run in seq order.
func (s *Store) ReadStates(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state FROM cycles WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read states: %w", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("read states: %w", err)
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// ReadUART returns the recorded UART bytes for a run in seq order.
func (s *Store) ReadUART(ctx context.Context, runID string) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT value FROM uart_bytes WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read uart: %w", err)
	}
	defer rows.Close()

	var out []byte
	for rows.Next() {
		var value int
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("read uart: %w", err)
		}
		out = append(out, byte(value))
	}
	return out, rows.Err()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	return nil
}
