// ABOUTME: ChatSession and ChatMessage storage operations for SQLite
// ABOUTME: Messages are indexed by owning session; rowid preserves insertion order
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// ChatStore handles chat session and message persistence
type ChatStore struct {
	db *DB
}

// NewChatStore creates a new ChatStore
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// SaveSession inserts or fully replaces the session with that id.
func (s *ChatStore) SaveSession(ctx context.Context, session *models.ChatSession) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO chats (id, title, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at
	`, session.ID, session.Title, session.UpdatedAt)
	if err != nil {
		return writeErr("save chat session", err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *ChatStore) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, title, updated_at FROM chats WHERE id = ?
	`, id).Scan(&session.ID, &session.Title, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("chat session", id)
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves all sessions, order unspecified.
func (s *ChatStore) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT id, title, updated_at FROM chats`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []models.ChatSession
	for rows.Next() {
		var session models.ChatSession
		if err := rows.Scan(&session.ID, &session.Title, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes one session record. Does not cascade to messages.
func (s *ChatStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id); err != nil {
		return writeErr("delete chat session", err)
	}
	return nil
}

// SaveMessage inserts or fully replaces a message under its owning session.
func (s *ChatStore) SaveMessage(ctx context.Context, sessionID string, message *models.ChatMessage) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO messages (id, session_id, role, text, timestamp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			role = excluded.role,
			text = excluded.text,
			timestamp = excluded.timestamp
	`, message.ID, sessionID, message.Role, message.Text, message.Timestamp)
	if err != nil {
		return writeErr("save chat message", err)
	}
	return nil
}

// ListBySession retrieves all messages of one session in insertion order.
func (s *ChatStore) ListBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, role, text, timestamp
		FROM messages
		WHERE session_id = ?
		ORDER BY rowid ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []models.ChatMessage
	for rows.Next() {
		var message models.ChatMessage
		if err := rows.Scan(&message.ID, &message.Role, &message.Text, &message.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// ListAll retrieves every message with its owning session id, in store
// insertion order. Used by the backup codec.
func (s *ChatStore) ListAll(ctx context.Context) ([]storage.MessageRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT session_id, id, role, text, timestamp
		FROM messages
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []storage.MessageRecord
	for rows.Next() {
		var record storage.MessageRecord
		if err := rows.Scan(&record.SessionID, &record.Message.ID, &record.Message.Role,
			&record.Message.Text, &record.Message.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
