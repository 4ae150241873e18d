// ABOUTME: Note storage operations for SQLite
// ABOUTME: Secondary index lookup by owning chapter
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// NoteStore handles note persistence
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a new NoteStore
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// Save inserts or fully replaces the note with that id.
func (s *NoteStore) Save(ctx context.Context, note *models.Note) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO notes (id, chapter_id, title, content, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			title = excluded.title,
			content = excluded.content,
			type = excluded.type,
			created_at = excluded.created_at
	`, note.ID, note.ChapterID, note.Title, note.Content, string(note.Type), note.CreatedAt)
	if err != nil {
		return writeErr("save note", err)
	}
	return nil
}

// Get retrieves a note by id.
func (s *NoteStore) Get(ctx context.Context, id string) (*models.Note, error) {
	var note models.Note
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, chapter_id, title, content, type, created_at
		FROM notes
		WHERE id = ?
	`, id).Scan(&note.ID, &note.ChapterID, &note.Title, &note.Content, &note.Type, &note.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("note", id)
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List retrieves all notes, order unspecified.
func (s *NoteStore) List(ctx context.Context) ([]models.Note, error) {
	return s.query(ctx, `SELECT id, chapter_id, title, content, type, created_at FROM notes`)
}

// ListByChapter retrieves all notes owned by a chapter.
func (s *NoteStore) ListByChapter(ctx context.Context, chapterID string) ([]models.Note, error) {
	return s.query(ctx, `
		SELECT id, chapter_id, title, content, type, created_at
		FROM notes
		WHERE chapter_id = ?
		ORDER BY created_at ASC
	`, chapterID)
}

// Delete removes one note record.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return writeErr("delete note", err)
	}
	return nil
}

func (s *NoteStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Note, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.ChapterID, &note.Title, &note.Content, &note.Type, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
