// Package calllog persists an audit trail of outbound API calls in
// SQLite. Every Jira request is recorded with its endpoint and status
// code so a session can be reconstructed after the fact.
package calllog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one recorded API call.
type Entry struct {
	ID        int64  `json:"id"`
	Prefix    string `json:"prefix"`
	Endpoint  string `json:"endpoint"`
	Status    int    `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Store is the SQLite-backed call log.
type Store struct {
	db *sql.DB
}

// New opens the call log database under dataDir, creating the
// directory and schema as needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("calllog: create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "calllog.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("calllog: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("calllog: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("calllog: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS calls (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			prefix     TEXT    NOT NULL,
			endpoint   TEXT    NOT NULL,
			status     INTEGER NOT NULL,
			created_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_calls_created_at ON calls (created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one call to the log. It satisfies the recorder
// interface the API clients accept.
func (s *Store) Record(prefix, endpoint string, status int) error {
	_, err := s.db.Exec(
		"INSERT INTO calls (prefix, endpoint, status) VALUES (?, ?, ?)",
		prefix, endpoint, status,
	)
	if err != nil {
		return fmt.Errorf("calllog: record: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first. A limit of
// zero or less defaults to 50.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		"SELECT id, prefix, endpoint, status, created_at FROM calls ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("calllog: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Prefix, &e.Endpoint, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("calllog: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
