// Package history is the on-device execution log: an append-only record of
// completed workout divisions, plus a small key-value area for the bearer
// token and installation id. It is the source of truth for all progression
// decisions; the backend is never consulted about what was trained when.
package history

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ExecutionEvent is one record of a completed workout division. Events are
// immutable once appended.
type ExecutionEvent struct {
	WorkoutID   int       `json:"workout_id"`
	Division    string    `json:"division"`
	CompletedAt time.Time `json:"completed_at"`
	Completed   bool      `json:"completed"`
}

// Store persists execution events and client state in a SQLite database under
// the data directory. It is scoped per installation: not synced, not
// multi-device.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the history database at dir/history.db and applies
// pending schema migrations.
func Open(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history db: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Append records one execution event. WorkoutID and Division are required;
// a zero CompletedAt is stamped with the current local time. Write failures
// propagate to the caller; unlike reads, a lost write must not go unnoticed.
func (s *Store) Append(ev ExecutionEvent) error {
	if ev.WorkoutID == 0 {
		return fmt.Errorf("appending event: workout id is required")
	}
	if ev.Division == "" {
		return fmt.Errorf("appending event: division is required")
	}
	if ev.CompletedAt.IsZero() {
		ev.CompletedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO execution_events (workout_id, division, completed_at, completed) VALUES (?, ?, ?, ?)`,
		ev.WorkoutID, ev.Division, ev.CompletedAt.Format(time.RFC3339Nano), ev.Completed,
	)
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// ReadAll returns every execution event in insertion order. Read failures are
// swallowed and reported as empty history: a corrupt local log should never
// block a member from training.
func (s *Store) ReadAll() []ExecutionEvent {
	rows, err := s.db.Query(
		`SELECT workout_id, division, completed_at, completed FROM execution_events ORDER BY id ASC`)
	if err != nil {
		s.log.Warn("history unreadable, treating as empty", "error", err)
		return nil
	}
	defer rows.Close()

	var events []ExecutionEvent
	for rows.Next() {
		var ev ExecutionEvent
		var completedAt string
		if err := rows.Scan(&ev.WorkoutID, &ev.Division, &completedAt, &ev.Completed); err != nil {
			s.log.Warn("history row unreadable, treating as empty", "error", err)
			return nil
		}
		ev.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			s.log.Warn("history timestamp unreadable, treating as empty", "error", err)
			return nil
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		s.log.Warn("history unreadable, treating as empty", "error", err)
		return nil
	}
	return events
}

// Clear deletes the entire execution log. Idempotent.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM execution_events`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
