// Package store is the local state database: the cached session, the
// last-seen assignment count used as the notification baseline, and a small
// action log for diagnostics. One sqlite file, safe across restarts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by LoadSession when nobody is signed in.
var ErrNoSession = errors.New("store: no cached session")

// Session is the locally cached sign-in: who is signed in and the role/level
// the workflow engine falls back to when the permissions endpoint is down.
type Session struct {
	Name    string
	Role    string
	Level   int
	SavedAt time.Time
}

// ActionRecord is one entry of the local action log.
type ActionRecord struct {
	At        time.Time
	Actor     string
	Action    string
	AppNumber string
	Detail    string
}

// Store wraps the sqlite database. Safe for concurrent use via database/sql.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a second process peeks.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			level INTEGER NOT NULL,
			saved_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS assignment_baseline (
			role TEXT PRIMARY KEY,
			count INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS action_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			app_number TEXT NOT NULL,
			detail TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_action_log_at ON action_log(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveSession replaces the cached session.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, name, role, level, saved_at_unixms)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   role = excluded.role,
		   level = excluded.level,
		   saved_at_unixms = excluded.saved_at_unixms`,
		sess.Name, sess.Role, sess.Level, time.Now().UnixMilli())
	return err
}

// LoadSession returns the cached session, or ErrNoSession.
func (s *Store) LoadSession(ctx context.Context) (*Session, error) {
	var sess Session
	var savedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, role, level, saved_at_unixms FROM session WHERE id = 1`).
		Scan(&sess.Name, &sess.Role, &sess.Level, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	sess.SavedAt = time.UnixMilli(savedAt)
	return &sess, nil
}

// ClearSession removes the cached session. Clearing an empty store is not an
// error.
func (s *Store) ClearSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}

// AssignmentBaseline returns the last-seen assignment count for a role, 0
// when never recorded.
func (s *Store) AssignmentBaseline(ctx context.Context, role string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM assignment_baseline WHERE role = ?`, role).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetAssignmentBaseline records the latest seen assignment count for a role.
func (s *Store) SetAssignmentBaseline(ctx context.Context, role string, count int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assignment_baseline (role, count, updated_at_unixms)
		 VALUES (?, ?, ?)
		 ON CONFLICT(role) DO UPDATE SET
		   count = excluded.count,
		   updated_at_unixms = excluded.updated_at_unixms`,
		role, count, time.Now().UnixMilli())
	return err
}

// AppendAction records a workflow action in the local log.
func (s *Store) AppendAction(ctx context.Context, rec ActionRecord) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_log (at_unixms, actor, action, app_number, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		at.UnixMilli(), rec.Actor, rec.Action, rec.AppNumber, rec.Detail)
	return err
}

// RecentActions returns up to limit log entries, newest first.
func (s *Store) RecentActions(ctx context.Context, limit int) ([]ActionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT at_unixms, actor, action, app_number, COALESCE(detail, '')
		 FROM action_log ORDER BY at_unixms DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActionRecord
	for rows.Next() {
		var rec ActionRecord
		var at int64
		if err := rows.Scan(&at, &rec.Actor, &rec.Action, &rec.AppNumber, &rec.Detail); err != nil {
			return nil, err
		}
		rec.At = time.UnixMilli(at)
		out = append(out, rec)
	}
	return out, rows.Err()
}
