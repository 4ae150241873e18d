// ABOUTME: QuizResult storage operations for SQLite
// ABOUTME: Results are written once per finished attempt and never mutated
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// ResultStore handles quiz result persistence
type ResultStore struct {
	db *DB
}

// NewResultStore creates a new ResultStore
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db}
}

// Save inserts or fully replaces the result with that id.
func (s *ResultStore) Save(ctx context.Context, result *models.QuizResult) error {
	answersJSON, err := marshalAnswers(result.Answers)
	if err != nil {
		return writeErr("save result", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO results (id, quiz_id, score, total_questions, answers_json, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			quiz_id = excluded.quiz_id,
			score = excluded.score,
			total_questions = excluded.total_questions,
			answers_json = excluded.answers_json,
			completed_at = excluded.completed_at
	`, result.ID, result.QuizID, result.Score, result.TotalQuestions, answersJSON, result.CompletedAt)
	if err != nil {
		return writeErr("save result", err)
	}
	return nil
}

// Get retrieves a result by id.
func (s *ResultStore) Get(ctx context.Context, id string) (*models.QuizResult, error) {
	var (
		result      models.QuizResult
		answersJSON string
	)
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, quiz_id, score, total_questions, answers_json, completed_at
		FROM results
		WHERE id = ?
	`, id).Scan(&result.ID, &result.QuizID, &result.Score, &result.TotalQuestions, &answersJSON, &result.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("result", id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &result.Answers); err != nil {
		return nil, err
	}
	return &result, nil
}

// List retrieves all results, order unspecified.
func (s *ResultStore) List(ctx context.Context) ([]models.QuizResult, error) {
	return s.query(ctx, `SELECT id, quiz_id, score, total_questions, answers_json, completed_at FROM results`)
}

// ListByQuiz retrieves all results for a quiz, newest first.
func (s *ResultStore) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizResult, error) {
	return s.query(ctx, `
		SELECT id, quiz_id, score, total_questions, answers_json, completed_at
		FROM results
		WHERE quiz_id = ?
		ORDER BY completed_at DESC
	`, quizID)
}

func (s *ResultStore) query(ctx context.Context, query string, args ...interface{}) ([]models.QuizResult, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.QuizResult
	for rows.Next() {
		var (
			result      models.QuizResult
			answersJSON string
		)
		if err := rows.Scan(&result.ID, &result.QuizID, &result.Score, &result.TotalQuestions, &answersJSON, &result.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answersJSON), &result.Answers); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
