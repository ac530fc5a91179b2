// Package session persists per-user conversation metadata.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the SQLite-backed session store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the session database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initTables(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initTables() error {
	query := `CREATE TABLE IF NOT EXISTS sessions (
		key TEXT PRIMARY KEY,
		message_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to initialize sessions table: %w", err)
	}
	return nil
}

// sessionKey builds the storage key for a user.
func sessionKey(userID string) string {
	return "session:" + userID
}

// Touch upserts the user's record in a single statement so concurrent
// touches for the same key never lose an increment. message_count starts at
// 1 and only ever grows; first contact is exactly count == 1.
func (s *SQLiteStore) Touch(ctx context.Context, userID string) (bool, error) {
	now := time.Now()

	var count int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO sessions (key, message_count, created_at, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			message_count = message_count + 1,
			updated_at = excluded.updated_at
		 RETURNING message_count`,
		sessionKey(userID), now, now,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to touch session: %w", err)
	}

	return count == 1, nil
}

// MessageCount returns the observed message count for a user, zero if the
// user has never been seen.
func (s *SQLiteStore) MessageCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT message_count FROM sessions WHERE key = ?",
		sessionKey(userID),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
