// ABOUTME: Key-value settings storage for SQLite
// ABOUTME: Holds process-wide markers such as the first-run seed flag
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arjun/studydesk/internal/storage"
)

// SettingStore handles key-value settings persistence
type SettingStore struct {
	db *DB
}

// NewSettingStore creates a new SettingStore
func NewSettingStore(db *DB) *SettingStore {
	return &SettingStore{db: db}
}

// Get retrieves a setting value by key.
func (s *SettingStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %q: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set inserts or replaces a setting.
func (s *SettingStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return writeErr("set setting", err)
	}
	return nil
}
