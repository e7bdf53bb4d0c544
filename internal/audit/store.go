// Package audit persists one record per tool invocation in a local SQLite
// database. The trail is for operators debugging an agent session; it stores
// the governance decision, not request payloads.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeError       Outcome = "error"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeRejected    Outcome = "rejected"
)

// Entry is one recorded invocation.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Tool       string    `json:"tool"`
	Outcome    Outcome   `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMS int64     `json:"durationMs"`
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	ts          TEXT NOT NULL,
	tool        TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_invocations_ts ON invocations (ts);
`

// Store is a SQLite-backed invocation log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("audit: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DefaultPath returns the per-user audit database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "issuewatch-audit.db"
	}
	return filepath.Join(home, ".issuewatch", "audit.db")
}

// Record appends an entry, filling ID and Timestamp when empty.
func (s *Store) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO invocations (id, ts, tool, outcome, detail, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.Format(time.RFC3339Nano), e.Tool, string(e.Outcome), e.Detail, e.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("audit: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, ts, tool, outcome, detail, duration_ms FROM invocations ORDER BY ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ts string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Tool, (*string)(&e.Outcome), &e.Detail, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
