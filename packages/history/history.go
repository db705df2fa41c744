// Package history persists a log of issued requests and their outcomes in
// a local SQLite database, so CLI sessions can be reviewed later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS calls (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status      INTEGER,
	bytes_read  INTEGER NOT NULL DEFAULT 0,
	body_kind   TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS calls_started_at ON calls(started_at);
`

// Entry is one recorded call. A zero ID is assigned on Record.
type Entry struct {
	ID        string
	StartedAt time.Time
	Method    string
	URL       string
	Status    int
	BytesRead int
	BodyKind  string
	Duration  time.Duration
	Error     string
}

// Store is a SQLite-backed call log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the call log at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts an entry, assigning an ID when it has none, and returns
// the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (id, started_at, method, url, status, bytes_read, body_kind, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.StartedAt, e.Method, e.URL, e.Status, e.BytesRead, e.BodyKind,
		e.Duration.Milliseconds(), e.Error)
	if err != nil {
		return Entry{}, fmt.Errorf("history: record: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, method, url, status, bytes_read, body_kind, duration_ms, error
		 FROM calls ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.Method, &e.URL, &e.Status,
			&e.BytesRead, &e.BodyKind, &durationMS, &e.Error); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate: %w", err)
	}
	return entries, nil
}
