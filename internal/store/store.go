// Package store persists finished timelines in SQLite so re-submitting an
// identical document returns the stored result instead of re-prompting the
// model.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dgallion1/timeliner/internal/timeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS timelines (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	doc_name     TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timelines_content_hash ON timelines(content_hash);

CREATE TABLE IF NOT EXISTS events (
	timeline_id  TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	year         INTEGER NOT NULL,
	month        INTEGER NOT NULL,
	day_of_month INTEGER NOT NULL,
	event        TEXT NOT NULL,
	source       TEXT NOT NULL,
	page         INTEGER NOT NULL,
	PRIMARY KEY (timeline_id, seq)
);
`

// Timeline is a persisted timeline with its ordered events.
type Timeline struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	DocName     string           `json:"doc_name"`
	ContentHash string           `json:"content_hash"`
	CreatedAt   time.Time        `json:"created_at"`
	Events      []timeline.Event `json:"events"`
}

// Summary is a listing row without event payloads.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	DocName    string    `json:"doc_name"`
	CreatedAt  time.Time `json:"created_at"`
	EventCount int       `json:"event_count"`
}

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTimeline inserts a timeline and its events in one transaction.
func (s *Store) SaveTimeline(ctx context.Context, t *Timeline) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO timelines (id, title, doc_name, content_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.DocName, t.ContentHash, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert timeline: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (timeline_id, seq, year, month, day_of_month, event, source, page) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare events insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range t.Events {
		if _, err := stmt.ExecContext(ctx, t.ID, i, e.Year, e.Month, e.Day, e.Text, e.Source, e.Page); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetTimeline loads a timeline by ID. Returns (nil, nil) when absent.
func (s *Store) GetTimeline(ctx context.Context, id string) (*Timeline, error) {
	return s.getWhere(ctx, "id = ?", id)
}

// FindByContentHash returns the most recent timeline for a content hash,
// or (nil, nil) when no identical document has been extracted.
func (s *Store) FindByContentHash(ctx context.Context, hash string) (*Timeline, error) {
	return s.getWhere(ctx, "content_hash = ?", hash)
}

func (s *Store) getWhere(ctx context.Context, cond string, arg any) (*Timeline, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, doc_name, content_hash, created_at FROM timelines WHERE `+cond+` ORDER BY created_at DESC LIMIT 1`,
		arg,
	)

	var t Timeline
	err := row.Scan(&t.ID, &t.Title, &t.DocName, &t.ContentHash, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan timeline: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT year, month, day_of_month, event, source, page FROM events WHERE timeline_id = ? ORDER BY seq`,
		t.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e timeline.Event
		if err := rows.Scan(&e.Year, &e.Month, &e.Day, &e.Text, &e.Source, &e.Page); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		t.Events = append(t.Events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return &t, nil
}

// ListTimelines returns summaries, most recent first.
func (s *Store) ListTimelines(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.doc_name, t.created_at, COUNT(e.timeline_id)
		FROM timelines t LEFT JOIN events e ON e.timeline_id = t.id
		GROUP BY t.id ORDER BY t.created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query timelines: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.DocName, &s.CreatedAt, &s.EventCount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteTimeline removes a timeline and its events. Returns false when the
// timeline did not exist.
func (s *Store) DeleteTimeline(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete timeline: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
