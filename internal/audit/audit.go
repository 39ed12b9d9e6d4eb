// Package audit keeps a local SQLite log of guarded command decisions.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 20

// Entry is one decision made for an intercepted command.
type Entry struct {
	ID         string
	Command    string
	MatchedIDs []string
	Outcome    string
	CreatedAt  time.Time
}

// Store is the SQLite-backed audit log.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens or creates the database at path and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening audit db: %w", err)
	}

	// Single connection for SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		command     TEXT NOT NULL,
		matched_ids TEXT NOT NULL DEFAULT '',
		outcome     TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores e. A missing ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, command, matched_ids, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Command, strings.Join(e.MatchedIDs, ","), e.Outcome, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording decision: %w", err)
	}
	s.logger.Debug("audit entry recorded", "id", e.ID, "outcome", e.Outcome)
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// means 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, command, matched_ids, outcome, created_at
		 FROM decisions ORDER BY created_at DESC, seq DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			matched string
			nanos   int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &matched, &e.Outcome, &nanos); err != nil {
			return nil, fmt.Errorf("scanning decision: %w", err)
		}
		if matched != "" {
			e.MatchedIDs = strings.Split(matched, ",")
		}
		e.CreatedAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
