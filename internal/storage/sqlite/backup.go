// ABOUTME: Backup export and import against the SQLite store
// ABOUTME: Import applies the whole snapshot in one transaction or not at all
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// ExportBackup reads every entity kind and assembles one snapshot document.
// Messages are grouped by owning session id in store insertion order. The
// read lock is held for the duration, so no write can interleave.
func (s *Storage) ExportBackup(ctx context.Context) (*storage.BackupData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := &storage.BackupData{
		Version:   storage.SupportedBackupVersion,
		Timestamp: time.Now().UnixMilli(),
		Messages:  map[string][]models.ChatMessage{},
	}

	var err error
	if data.Subjects, err = s.subjects.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to export subjects: %w", err)
	}
	if data.Chapters, err = s.chapters.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to export chapters: %w", err)
	}
	if data.Notes, err = s.notes.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to export notes: %w", err)
	}
	if data.Quizzes, err = s.quizzes.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to export quizzes: %w", err)
	}
	if data.Results, err = s.results.List(ctx); err != nil {
		return nil, fmt.Errorf("failed to export results: %w", err)
	}
	if data.Chats, err = s.chats.ListSessions(ctx); err != nil {
		return nil, fmt.Errorf("failed to export chats: %w", err)
	}

	records, err := s.chats.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export messages: %w", err)
	}
	for _, record := range records {
		data.Messages[record.SessionID] = append(data.Messages[record.SessionID], record.Message)
	}

	if data.Subjects == nil {
		data.Subjects = []models.Subject{}
	}
	if data.Chapters == nil {
		data.Chapters = []models.Chapter{}
	}
	if data.Notes == nil {
		data.Notes = []models.Note{}
	}
	if data.Quizzes == nil {
		data.Quizzes = []models.Quiz{}
	}
	if data.Results == nil {
		data.Results = []models.QuizResult{}
	}
	if data.Chats == nil {
		data.Chats = []models.ChatSession{}
	}

	return data, nil
}

// ImportBackup applies every record of a validated snapshot with merge
// semantics: existing ids are fully replaced, new ids inserted, and nothing
// already in the store is cleared. All kinds are applied inside one
// transaction; a failure leaves the store untouched.
func (s *Storage) ImportBackup(ctx context.Context, doc *storage.BackupData) error {
	return s.importDoc(ctx, doc, false)
}

// ImportBackupReplace clears every entity kind before applying the snapshot.
// A distinct, explicit operation; never the default.
func (s *Storage) ImportBackupReplace(ctx context.Context, doc *storage.BackupData) error {
	return s.importDoc(ctx, doc, true)
}

func (s *Storage) importDoc(ctx context.Context, doc *storage.BackupData, replace bool) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", storage.ErrInvalidBackup)
	}
	if doc.Version > storage.SupportedBackupVersion || doc.Version < 1 {
		return fmt.Errorf("%w: snapshot version %d is not supported", storage.ErrInvalidBackup, doc.Version)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return writeErr("import backup", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		for _, table := range []string{"subjects", "chapters", "notes", "quizzes", "results", "chats", "messages"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return writeErr("import backup", err)
			}
		}
	}

	for i := range doc.Subjects {
		subject := &doc.Subjects[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subjects (id, name, icon, color, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, icon = excluded.icon,
				color = excluded.color, created_at = excluded.created_at
		`, subject.ID, subject.Name, subject.Icon, subject.Color, subject.CreatedAt); err != nil {
			return writeErr("import subjects", err)
		}
	}

	for i := range doc.Chapters {
		chapter := &doc.Chapters[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chapters (id, subject_id, title, description, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				subject_id = excluded.subject_id, title = excluded.title,
				description = excluded.description, created_at = excluded.created_at
		`, chapter.ID, chapter.SubjectID, chapter.Title, nullString(chapter.Description), chapter.CreatedAt); err != nil {
			return writeErr("import chapters", err)
		}
	}

	for i := range doc.Notes {
		note := &doc.Notes[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, chapter_id, title, content, type, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				chapter_id = excluded.chapter_id, title = excluded.title,
				content = excluded.content, type = excluded.type,
				created_at = excluded.created_at
		`, note.ID, note.ChapterID, note.Title, note.Content, string(note.Type), note.CreatedAt); err != nil {
			return writeErr("import notes", err)
		}
	}

	for i := range doc.Quizzes {
		quiz := &doc.Quizzes[i]
		questionsJSON, err := marshalQuestions(quiz.Questions)
		if err != nil {
			return fmt.Errorf("%w: quiz %q: %v", storage.ErrInvalidBackup, quiz.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO quizzes (id, chapter_id, title, questions_json, source, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				chapter_id = excluded.chapter_id, title = excluded.title,
				questions_json = excluded.questions_json, source = excluded.source,
				created_at = excluded.created_at
		`, quiz.ID, nullString(quiz.ChapterID), quiz.Title, questionsJSON, string(quiz.SourceType), quiz.CreatedAt); err != nil {
			return writeErr("import quizzes", err)
		}
	}

	for i := range doc.Results {
		result := &doc.Results[i]
		answersJSON, err := marshalAnswers(result.Answers)
		if err != nil {
			return fmt.Errorf("%w: result %q: %v", storage.ErrInvalidBackup, result.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO results (id, quiz_id, score, total_questions, answers_json, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				quiz_id = excluded.quiz_id, score = excluded.score,
				total_questions = excluded.total_questions,
				answers_json = excluded.answers_json, completed_at = excluded.completed_at
		`, result.ID, result.QuizID, result.Score, result.TotalQuestions, answersJSON, result.CompletedAt); err != nil {
			return writeErr("import results", err)
		}
	}

	for i := range doc.Chats {
		session := &doc.Chats[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chats (id, title, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title, updated_at = excluded.updated_at
		`, session.ID, session.Title, session.UpdatedAt); err != nil {
			return writeErr("import chats", err)
		}
	}

	for sessionID, messages := range doc.Messages {
		for i := range messages {
			message := &messages[i]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO messages (id, session_id, role, text, timestamp)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					session_id = excluded.session_id, role = excluded.role,
					text = excluded.text, timestamp = excluded.timestamp
			`, message.ID, sessionID, message.Role, message.Text, message.Timestamp); err != nil {
				return writeErr("import messages", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return writeErr("import backup", err)
	}
	return nil
}

// ExportToYAML writes the snapshot to a YAML file for human inspection.
// Not an import format; the transportable document is JSON.
func (s *Storage) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := s.ExportBackup(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// ExportToMarkdown writes a readable study summary to a Markdown file.
func (s *Storage) ExportToMarkdown(ctx context.Context, outputPath string) error {
	data, err := s.ExportBackup(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Study Export - %s\n\n", time.Now().Format("2006-01-02"))

	chaptersBySubject := make(map[string][]models.Chapter)
	for _, chapter := range data.Chapters {
		chaptersBySubject[chapter.SubjectID] = append(chaptersBySubject[chapter.SubjectID], chapter)
	}
	notesByChapter := make(map[string][]models.Note)
	for _, note := range data.Notes {
		notesByChapter[note.ChapterID] = append(notesByChapter[note.ChapterID], note)
	}

	for _, subject := range data.Subjects {
		_, _ = fmt.Fprintf(file, "## %s %s\n\n", subject.Icon, subject.Name)
		for _, chapter := range chaptersBySubject[subject.ID] {
			_, _ = fmt.Fprintf(file, "### %s\n\n", chapter.Title)
			for _, note := range notesByChapter[chapter.ID] {
				_, _ = fmt.Fprintf(file, "#### %s (%s)\n\n%s\n\n", note.Title, note.Type, note.Content)
			}
		}
	}

	if len(data.Quizzes) > 0 {
		_, _ = fmt.Fprintln(file, "## Quizzes")
		_, _ = fmt.Fprintln(file)
		_, _ = fmt.Fprintln(file, "| Title | Questions | Source |")
		_, _ = fmt.Fprintln(file, "|-------|-----------|--------|")
		for _, quiz := range data.Quizzes {
			_, _ = fmt.Fprintf(file, "| %s | %d | %s |\n", quiz.Title, len(quiz.Questions), quiz.SourceType)
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}
