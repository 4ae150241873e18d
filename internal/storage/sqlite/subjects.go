// ABOUTME: Subject storage operations for SQLite
// ABOUTME: Implements keyed CRUD for the root of the study hierarchy
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// SubjectStore handles subject persistence
type SubjectStore struct {
	db *DB
}

// NewSubjectStore creates a new SubjectStore
func NewSubjectStore(db *DB) *SubjectStore {
	return &SubjectStore{db: db}
}

// Save inserts or fully replaces the subject with that id.
func (s *SubjectStore) Save(ctx context.Context, subject *models.Subject) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO subjects (id, name, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			color = excluded.color,
			created_at = excluded.created_at
	`, subject.ID, subject.Name, subject.Icon, subject.Color, subject.CreatedAt)
	if err != nil {
		return writeErr("save subject", err)
	}
	return nil
}

// Get retrieves a subject by id.
func (s *SubjectStore) Get(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, name, icon, color, created_at
		FROM subjects
		WHERE id = ?
	`, id).Scan(&subject.ID, &subject.Name, &subject.Icon, &subject.Color, &subject.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundErr("subject", id)
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// List retrieves all subjects, order unspecified.
func (s *SubjectStore) List(ctx context.Context) ([]models.Subject, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, name, icon, color, created_at FROM subjects
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subjects []models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.Icon, &subject.Color, &subject.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// Delete removes one subject record. Does not cascade.
func (s *SubjectStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM subjects WHERE id = ?", id); err != nil {
		return writeErr("delete subject", err)
	}
	return nil
}
