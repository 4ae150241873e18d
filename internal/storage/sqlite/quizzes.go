// ABOUTME: Quiz storage operations for SQLite
// ABOUTME: Questions are serialized as an ordered JSON sequence inside the record
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// QuizStore handles quiz persistence
type QuizStore struct {
	db *DB
}

// NewQuizStore creates a new QuizStore
func NewQuizStore(db *DB) *QuizStore {
	return &QuizStore{db: db}
}

// Save inserts or fully replaces the quiz with that id, questions included.
func (s *QuizStore) Save(ctx context.Context, quiz *models.Quiz) error {
	questionsJSON, err := marshalQuestions(quiz.Questions)
	if err != nil {
		return writeErr("save quiz", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO quizzes (id, chapter_id, title, questions_json, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			title = excluded.title,
			questions_json = excluded.questions_json,
			source = excluded.source,
			created_at = excluded.created_at
	`, quiz.ID, nullString(quiz.ChapterID), quiz.Title, questionsJSON, string(quiz.SourceType), quiz.CreatedAt)
	if err != nil {
		return writeErr("save quiz", err)
	}
	return nil
}

// Get retrieves a quiz by id.
func (s *QuizStore) Get(ctx context.Context, id string) (*models.Quiz, error) {
	var (
		quiz          models.Quiz
		chapterID     sql.NullString
		questionsJSON string
	)
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, chapter_id, title, questions_json, source, created_at
		FROM quizzes
		WHERE id = ?
	`, id).Scan(&quiz.ID, &chapterID, &quiz.Title, &questionsJSON, &quiz.SourceType, &quiz.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("quiz", id)
	}
	if err != nil {
		return nil, err
	}
	if chapterID.Valid {
		quiz.ChapterID = chapterID.String
	}
	if err := json.Unmarshal([]byte(questionsJSON), &quiz.Questions); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// List retrieves all quizzes, order unspecified.
func (s *QuizStore) List(ctx context.Context) ([]models.Quiz, error) {
	return s.query(ctx, `SELECT id, chapter_id, title, questions_json, source, created_at FROM quizzes`)
}

// ListByChapter retrieves all quizzes owned by a chapter.
func (s *QuizStore) ListByChapter(ctx context.Context, chapterID string) ([]models.Quiz, error) {
	return s.query(ctx, `
		SELECT id, chapter_id, title, questions_json, source, created_at
		FROM quizzes
		WHERE chapter_id = ?
		ORDER BY created_at ASC
	`, chapterID)
}

// Delete removes one quiz record. Does not cascade to results.
func (s *QuizStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM quizzes WHERE id = ?", id); err != nil {
		return writeErr("delete quiz", err)
	}
	return nil
}

func (s *QuizStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Quiz, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var quizzes []models.Quiz
	for rows.Next() {
		var (
			quiz          models.Quiz
			chapterID     sql.NullString
			questionsJSON string
		)
		if err := rows.Scan(&quiz.ID, &chapterID, &quiz.Title, &questionsJSON, &quiz.SourceType, &quiz.CreatedAt); err != nil {
			return nil, err
		}
		if chapterID.Valid {
			quiz.ChapterID = chapterID.String
		}
		if err := json.Unmarshal([]byte(questionsJSON), &quiz.Questions); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}
