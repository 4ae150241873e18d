// ABOUTME: Chapter storage operations for SQLite
// ABOUTME: Secondary index lookup by owning subject
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// ChapterStore handles chapter persistence
type ChapterStore struct {
	db *DB
}

// NewChapterStore creates a new ChapterStore
func NewChapterStore(db *DB) *ChapterStore {
	return &ChapterStore{db: db}
}

// Save inserts or fully replaces the chapter with that id.
func (s *ChapterStore) Save(ctx context.Context, chapter *models.Chapter) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO chapters (id, subject_id, title, description, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject_id = excluded.subject_id,
			title = excluded.title,
			description = excluded.description,
			created_at = excluded.created_at
	`, chapter.ID, chapter.SubjectID, chapter.Title, nullString(chapter.Description), chapter.CreatedAt)
	if err != nil {
		return writeErr("save chapter", err)
	}
	return nil
}

// Get retrieves a chapter by id.
func (s *ChapterStore) Get(ctx context.Context, id string) (*models.Chapter, error) {
	var (
		chapter     models.Chapter
		description sql.NullString
	)
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, subject_id, title, description, created_at
		FROM chapters
		WHERE id = ?
	`, id).Scan(&chapter.ID, &chapter.SubjectID, &chapter.Title, &description, &chapter.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("chapter", id)
	}
	if err != nil {
		return nil, err
	}
	if description.Valid {
		chapter.Description = description.String
	}
	return &chapter, nil
}

// List retrieves all chapters, order unspecified.
func (s *ChapterStore) List(ctx context.Context) ([]models.Chapter, error) {
	return s.query(ctx, `SELECT id, subject_id, title, description, created_at FROM chapters`)
}

// ListBySubject retrieves all chapters owned by a subject.
func (s *ChapterStore) ListBySubject(ctx context.Context, subjectID string) ([]models.Chapter, error) {
	return s.query(ctx, `
		SELECT id, subject_id, title, description, created_at
		FROM chapters
		WHERE subject_id = ?
		ORDER BY created_at ASC
	`, subjectID)
}

// Delete removes one chapter record. Does not cascade.
func (s *ChapterStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM chapters WHERE id = ?", id); err != nil {
		return writeErr("delete chapter", err)
	}
	return nil
}

func (s *ChapterStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Chapter, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chapters []models.Chapter
	for rows.Next() {
		var (
			chapter     models.Chapter
			description sql.NullString
		)
		if err := rows.Scan(&chapter.ID, &chapter.SubjectID, &chapter.Title, &description, &chapter.CreatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			chapter.Description = description.String
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}
