// Package store is the persisted record store for the experiment: the
// experiment singleton, agents, messages, posts, shared insights, and the
// activity log, all in a single SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"hivemind/internal/logging"
)

// LocalStore wraps the SQLite database. All experiment state lives here;
// nothing in the engine caches records between turns.
type LocalStore struct {
	db     *sql.DB
	dbPath string
}

// Open initializes the database at path, creating the schema and the
// experiment singleton when absent.
func Open(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			logging.StoreDebug("pragma failed (%s): %v", pragma, err)
		}
	}

	s := &LocalStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("store ready at %s", path)
	return s, nil
}

func (s *LocalStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS experiment (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		is_live INTEGER NOT NULL DEFAULT 0,
		day INTEGER NOT NULL DEFAULT 1,
		started_at TEXT,
		total_messages INTEGER NOT NULL DEFAULT 0,
		total_posts INTEGER NOT NULL DEFAULT 0,
		total_revenue REAL NOT NULL DEFAULT 0,
		current_goal TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		total_messages INTEGER NOT NULL DEFAULT 0,
		total_posts INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		channel TEXT NOT NULL,
		content TEXT NOT NULL,
		message_type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		content TEXT NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		shares INTEGER NOT NULL DEFAULT 0,
		comments INTEGER NOT NULL DEFAULT 0,
		engagement_score INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shared_memory (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		content TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		importance INTEGER NOT NULL DEFAULT 5,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS activity_log (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		action_type TEXT NOT NULL,
		description TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Experiment singleton. INSERT OR IGNORE keeps reprovisioning a no-op.
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO experiment (id, is_live, day, updated_at) VALUES (1, 0, 1, ?)`,
		now(),
	)
	if err != nil {
		return fmt.Errorf("failed to seed experiment: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// now renders the current UTC time the way every created_at/updated_at
// column stores it.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
