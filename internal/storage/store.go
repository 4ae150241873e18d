// ABOUTME: Store interface and error kinds for the record store
// ABOUTME: Implemented by the sqlite package; substitutable in tests
package storage

import (
	"context"
	"errors"

	"github.com/arjun/studydesk/internal/models"
)

// Error kinds surfaced by the persistence layer. Callers match with
// errors.Is; every error returned by a Store wraps one of these or carries
// enough context on its own.
var (
	// ErrStorageUnavailable means the store failed to open or a write could
	// not be applied. Fatal to persistence until the caller retries.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound means a referenced id is absent. Callers decide whether
	// absence is an error.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidBackup means an import document is malformed or declares a
	// version newer than this code understands. The import is aborted with
	// no partial writes.
	ErrInvalidBackup = errors.New("invalid backup")

	// ErrDanglingReference means a write referenced a non-existent parent
	// record. Detected before the write reaches the store.
	ErrDanglingReference = errors.New("dangling parent reference")
)

// MessageRecord pairs a chat message with its owning session, in store
// insertion order. Used by the backup codec.
type MessageRecord struct {
	SessionID string
	Message   models.ChatMessage
}

// DeleteBatch is a multi-kind delete set applied in one transaction. The
// facade uses it to implement cascading deletes; the store itself never
// cascades.
type DeleteBatch struct {
	Subjects        []string
	Chapters        []string
	Notes           []string
	Quizzes         []string
	Results         []string
	Chats           []string
	MessageSessions []string // deletes every message owned by these sessions
}

// Empty reports whether the batch deletes nothing.
func (b DeleteBatch) Empty() bool {
	return len(b.Subjects) == 0 && len(b.Chapters) == 0 && len(b.Notes) == 0 &&
		len(b.Quizzes) == 0 && len(b.Results) == 0 && len(b.Chats) == 0 &&
		len(b.MessageSessions) == 0
}

// Store is the durable keyed record store. Save is a full replace of the
// record with that id, never a partial merge. Get returns ErrNotFound for a
// missing id. List order is unspecified unless documented otherwise.
type Store interface {
	SaveSubject(ctx context.Context, s *models.Subject) error
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error

	SaveChapter(ctx context.Context, c *models.Chapter) error
	GetChapter(ctx context.Context, id string) (*models.Chapter, error)
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	ListChaptersBySubject(ctx context.Context, subjectID string) ([]models.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error

	SaveNote(ctx context.Context, n *models.Note) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	ListNotesByChapter(ctx context.Context, chapterID string) ([]models.Note, error)
	DeleteNote(ctx context.Context, id string) error

	SaveQuiz(ctx context.Context, q *models.Quiz) error
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	ListQuizzesByChapter(ctx context.Context, chapterID string) ([]models.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error

	SaveResult(ctx context.Context, r *models.QuizResult) error
	GetResult(ctx context.Context, id string) (*models.QuizResult, error)
	ListResults(ctx context.Context) ([]models.QuizResult, error)
	ListResultsByQuiz(ctx context.Context, quizID string) ([]models.QuizResult, error)

	SaveChat(ctx context.Context, c *models.ChatSession) error
	GetChat(ctx context.Context, id string) (*models.ChatSession, error)
	ListChats(ctx context.Context) ([]models.ChatSession, error)
	DeleteChat(ctx context.Context, id string) error

	SaveMessage(ctx context.Context, sessionID string, m *models.ChatMessage) error
	ListMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	ListMessages(ctx context.Context) ([]MessageRecord, error)

	DeleteBatch(ctx context.Context, batch DeleteBatch) error

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	ExportBackup(ctx context.Context) (*BackupData, error)
	ImportBackup(ctx context.Context, doc *BackupData) error
	ImportBackupReplace(ctx context.Context, doc *BackupData) error

	Close() error
}
