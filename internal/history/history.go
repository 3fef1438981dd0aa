// Package history records implementation runs in a local SQLite database
// so past runs can be listed and inspected. Recording failures are logged
// and never abort a run.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fyrsmithlabs/forge/internal/orchestrator"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    project     TEXT NOT NULL,
    spec_path   TEXT NOT NULL,
    session_id  TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'running' CHECK (status IN ('running', 'completed', 'failed')),
    started_at  TEXT NOT NULL DEFAULT (datetime('now')),
    finished_at TEXT
);

CREATE TABLE IF NOT EXISTS phases (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id),
    phase       TEXT NOT NULL,
    status      TEXT NOT NULL,
    units       INTEGER NOT NULL DEFAULT 0,
    error       TEXT NOT NULL DEFAULT '',
    started_at  TEXT NOT NULL,
    finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_phases_run ON phases(run_id);
`

// Run is one recorded implementation run.
type Run struct {
	ID         string
	Project    string
	SpecPath   string
	SessionID  string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// PhaseRecord is one recorded phase of a run.
type PhaseRecord struct {
	Phase      string
	Status     string
	Units      int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store persists runs and their phases.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the run database location under the user's data
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".local", "share", "forge")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return filepath.Join(dir, "forge.db"), nil
}

// Open opens (and migrates) the run database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening run database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating run database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun inserts a running row and returns its ID.
func (s *Store) BeginRun(ctx context.Context, project, specPath, sessionID string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, project, spec_path, session_id, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, project, specPath, sessionID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// FinishRun marks the run completed or failed.
func (s *Store) FinishRun(ctx context.Context, runID string, failed bool) error {
	status := "completed"
	if failed {
		status = "failed"
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339), runID)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// RecordPhases inserts the run's phase results.
func (s *Store) RecordPhases(ctx context.Context, runID string, phases []orchestrator.PhaseResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("recording phases: %w", err)
	}
	defer tx.Rollback()

	for _, p := range phases {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO phases (run_id, phase, status, units, error, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, string(p.Phase), string(p.Status), p.Units, p.Error,
			p.StartedAt.UTC().Format(time.RFC3339), p.CompletedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("recording phase %s: %w", p.Phase, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns runs newest first, up to limit (0 for all).
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, project, spec_path, session_id, status, started_at, COALESCE(finished_at, '') FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Project, &r.SpecPath, &r.SessionID, &r.Status, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Phases returns the recorded phases of one run in insertion order.
func (s *Store) Phases(ctx context.Context, runID string) ([]PhaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phase, status, units, error, started_at, finished_at FROM phases WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []PhaseRecord
	for rows.Next() {
		var p PhaseRecord
		var started, finished string
		if err := rows.Scan(&p.Phase, &p.Status, &p.Units, &p.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning phase: %w", err)
		}
		p.StartedAt, _ = time.Parse(time.RFC3339, started)
		p.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		phases = append(phases, p)
	}
	return phases, rows.Err()
}
