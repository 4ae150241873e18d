// ABOUTME: Shared scan and error helpers for the entity stores
// ABOUTME: Maps driver errors onto the storage error kinds
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// writeErr wraps a failed mutation. A write that cannot be applied means the
// store is unavailable until the caller retries.
func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, storage.ErrStorageUnavailable, err)
}

// notFoundErr wraps a missing id with the record kind for context.
func notFoundErr(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, storage.ErrNotFound)
}

// nullString converts an empty string to sql.NullString
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// marshalQuestions serializes an ordered question sequence for the
// questions_json column.
func marshalQuestions(questions []models.Question) (string, error) {
	if questions == nil {
		questions = []models.Question{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// marshalAnswers serializes a positional answer sequence for the
// answers_json column.
func marshalAnswers(answers []string) (string, error) {
	if answers == nil {
		answers = []string{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
