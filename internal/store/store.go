// Package store persists to-do lists and todos for the API server in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// timeLayout is how timestamps are stored; it sorts lexically.
const timeLayout = time.RFC3339Nano

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed repository of lists and todos.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS todo_lists (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		seq         INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lists_user ON todo_lists(user_id);

	CREATE TABLE IF NOT EXISTS todos (
		id             TEXT PRIMARY KEY,
		list_id        TEXT NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		text           TEXT NOT NULL DEFAULT '',
		is_active      INTEGER NOT NULL DEFAULT 1,
		deadline_date  TEXT NOT NULL,
		seq            INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_todos_list ON todos(list_id);
	`
	_, err := s.db.Exec(ddl)
	return err
}
