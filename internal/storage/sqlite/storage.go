// ABOUTME: Unified Storage layer that wraps all SQLite entity stores
// ABOUTME: Single logical writer; implements the storage.Store interface
package sqlite

import (
	"context"
	"fmt"
	"sync"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// Storage manages all persistent study data using SQLite.
type Storage struct {
	db       *DB
	subjects *SubjectStore
	chapters *ChapterStore
	notes    *NoteStore
	quizzes  *QuizStore
	results  *ResultStore
	chats    *ChatStore
	settings *SettingStore
	mu       sync.RWMutex
}

var _ storage.Store = (*Storage)(nil)

// NewStorage initializes storage at the default database path.
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path.
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing).
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:       db,
		subjects: NewSubjectStore(db),
		chapters: NewChapterStore(db),
		notes:    NewNoteStore(db),
		quizzes:  NewQuizStore(db),
		results:  NewResultStore(db),
		chats:    NewChatStore(db),
		settings: NewSettingStore(db),
	}
}

// Close closes the database connection.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// --- Subject operations ---

func (s *Storage) SaveSubject(ctx context.Context, subject *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.Save(ctx, subject)
}

func (s *Storage) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects.Get(ctx, id)
}

func (s *Storage) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects.List(ctx)
}

func (s *Storage) DeleteSubject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.Delete(ctx, id)
}

// --- Chapter operations ---

func (s *Storage) SaveChapter(ctx context.Context, chapter *models.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chapters.Save(ctx, chapter)
}

func (s *Storage) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapters.Get(ctx, id)
}

func (s *Storage) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapters.List(ctx)
}

func (s *Storage) ListChaptersBySubject(ctx context.Context, subjectID string) ([]models.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapters.ListBySubject(ctx, subjectID)
}

func (s *Storage) DeleteChapter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chapters.Delete(ctx, id)
}

// --- Note operations ---

func (s *Storage) SaveNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Save(ctx, note)
}

func (s *Storage) GetNote(ctx context.Context, id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.Get(ctx, id)
}

func (s *Storage) ListNotes(ctx context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.List(ctx)
}

func (s *Storage) ListNotesByChapter(ctx context.Context, chapterID string) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.ListByChapter(ctx, chapterID)
}

func (s *Storage) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Delete(ctx, id)
}

// --- Quiz operations ---

func (s *Storage) SaveQuiz(ctx context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quizzes.Save(ctx, quiz)
}

func (s *Storage) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizzes.Get(ctx, id)
}

func (s *Storage) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizzes.List(ctx)
}

func (s *Storage) ListQuizzesByChapter(ctx context.Context, chapterID string) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quizzes.ListByChapter(ctx, chapterID)
}

func (s *Storage) DeleteQuiz(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quizzes.Delete(ctx, id)
}

// --- Result operations ---

func (s *Storage) SaveResult(ctx context.Context, result *models.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.Save(ctx, result)
}

func (s *Storage) GetResult(ctx context.Context, id string) (*models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.Get(ctx, id)
}

func (s *Storage) ListResults(ctx context.Context) ([]models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.List(ctx)
}

func (s *Storage) ListResultsByQuiz(ctx context.Context, quizID string) ([]models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results.ListByQuiz(ctx, quizID)
}

// --- Chat operations ---

func (s *Storage) SaveChat(ctx context.Context, session *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats.SaveSession(ctx, session)
}

func (s *Storage) GetChat(ctx context.Context, id string) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats.GetSession(ctx, id)
}

func (s *Storage) ListChats(ctx context.Context) ([]models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats.ListSessions(ctx)
}

func (s *Storage) DeleteChat(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats.DeleteSession(ctx, id)
}

func (s *Storage) SaveMessage(ctx context.Context, sessionID string, message *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats.SaveMessage(ctx, sessionID, message)
}

func (s *Storage) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats.ListBySession(ctx, sessionID)
}

func (s *Storage) ListMessages(ctx context.Context) ([]storage.MessageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats.ListAll(ctx)
}

// --- Setting operations ---

func (s *Storage) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Get(ctx, key)
}

func (s *Storage) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Set(ctx, key, value)
}

// DeleteBatch removes a multi-kind delete set in one transaction: either
// every listed record is gone afterwards or none are.
func (s *Storage) DeleteBatch(ctx context.Context, batch storage.DeleteBatch) error {
	if batch.Empty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return writeErr("delete batch", err)
	}
	defer func() { _ = tx.Rollback() }()

	steps := []struct {
		query string
		ids   []string
	}{
		{"DELETE FROM subjects WHERE id = ?", batch.Subjects},
		{"DELETE FROM chapters WHERE id = ?", batch.Chapters},
		{"DELETE FROM notes WHERE id = ?", batch.Notes},
		{"DELETE FROM quizzes WHERE id = ?", batch.Quizzes},
		{"DELETE FROM results WHERE id = ?", batch.Results},
		{"DELETE FROM chats WHERE id = ?", batch.Chats},
		{"DELETE FROM messages WHERE session_id = ?", batch.MessageSessions},
	}

	for _, step := range steps {
		for _, id := range step.ids {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return writeErr("delete batch", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return writeErr("delete batch", err)
	}
	return nil
}
