// ABOUTME: Record mutations exposed by the facade
// ABOUTME: Parent references are verified before any write; deletes cascade in one transaction
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/session"
	"github.com/arjun/studydesk/internal/storage"
)

// AddSubject creates and persists a subject, then republishes.
func (a *App) AddSubject(ctx context.Context, name, icon, color string) (*models.Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required")
	}
	subject := &models.Subject{
		ID:        models.NewID(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: models.NowMillis(),
	}
	if err := a.store.SaveSubject(ctx, subject); err != nil {
		return nil, err
	}
	if _, err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	return subject, nil
}

// AddChapter creates a chapter under an existing subject.
func (a *App) AddChapter(ctx context.Context, subjectID, title, description string) (*models.Chapter, error) {
	if title == "" {
		return nil, fmt.Errorf("chapter title is required")
	}
	if err := a.checkSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	chapter := &models.Chapter{
		ID:          models.NewID(),
		SubjectID:   subjectID,
		Title:       title,
		Description: description,
		CreatedAt:   models.NowMillis(),
	}
	if err := a.store.SaveChapter(ctx, chapter); err != nil {
		return nil, err
	}
	if _, err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	return chapter, nil
}

// AddNote persists a note under an existing chapter. A missing id and
// timestamp are filled in.
func (a *App) AddNote(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = models.NewID()
	}
	if note.CreatedAt == 0 {
		note.CreatedAt = models.NowMillis()
	}
	if err := note.Validate(); err != nil {
		return err
	}
	if err := a.checkChapter(ctx, note.ChapterID); err != nil {
		return err
	}
	return a.store.SaveNote(ctx, note)
}

// AddQuiz persists a quiz. The chapter reference, when present, must exist;
// missing question ids are filled in.
func (a *App) AddQuiz(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = models.NewID()
	}
	if quiz.CreatedAt == 0 {
		quiz.CreatedAt = models.NowMillis()
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = models.NewID()
		}
	}
	if err := quiz.Validate(); err != nil {
		return err
	}
	if quiz.ChapterID != "" {
		if err := a.checkChapter(ctx, quiz.ChapterID); err != nil {
			return err
		}
	}
	if err := a.store.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	_, err := a.Refresh(ctx)
	return err
}

// SaveQuizResult persists a finished attempt against an existing quiz. The
// answer sequence is padded to the question count so every index is
// interpretable.
func (a *App) SaveQuizResult(ctx context.Context, quizID string, result models.QuizResult) (*models.QuizResult, error) {
	quiz, err := a.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("quiz %q: %w", quizID, storage.ErrDanglingReference)
		}
		return nil, err
	}

	result.QuizID = quizID
	result.TotalQuestions = len(quiz.Questions)
	for len(result.Answers) < result.TotalQuestions {
		result.Answers = append(result.Answers, session.Unanswered)
	}
	if result.ID == "" {
		result.ID = models.NewID()
	}
	if result.CompletedAt == 0 {
		result.CompletedAt = models.NowMillis()
	}
	if err := a.store.SaveResult(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Quiz retrieves one quiz by id.
func (a *App) Quiz(ctx context.Context, id string) (*models.Quiz, error) {
	return a.store.GetQuiz(ctx, id)
}

// QuizResults lists the results for one quiz, newest first.
func (a *App) QuizResults(ctx context.Context, quizID string) ([]models.QuizResult, error) {
	return a.store.ListResultsByQuiz(ctx, quizID)
}

// ChapterNotes lists the notes under one chapter, oldest first.
func (a *App) ChapterNotes(ctx context.Context, chapterID string) ([]models.Note, error) {
	return a.store.ListNotesByChapter(ctx, chapterID)
}

// ChapterQuizzes lists the quizzes under one chapter, oldest first.
func (a *App) ChapterQuizzes(ctx context.Context, chapterID string) ([]models.Quiz, error) {
	return a.store.ListQuizzesByChapter(ctx, chapterID)
}

// DeleteSubject removes a subject and everything transitively under it:
// chapters, their notes and quizzes, and those quizzes' results. The whole
// set is deleted in one store transaction.
func (a *App) DeleteSubject(ctx context.Context, id string) error {
	batch := storage.DeleteBatch{Subjects: []string{id}}

	chapters, err := a.store.ListChaptersBySubject(ctx, id)
	if err != nil {
		return err
	}
	for _, chapter := range chapters {
		batch.Chapters = append(batch.Chapters, chapter.ID)

		notes, err := a.store.ListNotesByChapter(ctx, chapter.ID)
		if err != nil {
			return err
		}
		for _, note := range notes {
			batch.Notes = append(batch.Notes, note.ID)
		}

		quizzes, err := a.store.ListQuizzesByChapter(ctx, chapter.ID)
		if err != nil {
			return err
		}
		for _, quiz := range quizzes {
			batch.Quizzes = append(batch.Quizzes, quiz.ID)
			results, err := a.store.ListResultsByQuiz(ctx, quiz.ID)
			if err != nil {
				return err
			}
			for _, result := range results {
				batch.Results = append(batch.Results, result.ID)
			}
		}
	}

	if err := a.store.DeleteBatch(ctx, batch); err != nil {
		return err
	}
	_, err = a.Refresh(ctx)
	return err
}

// DeleteNote removes one note.
func (a *App) DeleteNote(ctx context.Context, id string) error {
	return a.store.DeleteNote(ctx, id)
}

// DeleteQuiz removes a quiz together with its results.
func (a *App) DeleteQuiz(ctx context.Context, id string) error {
	batch := storage.DeleteBatch{Quizzes: []string{id}}
	results, err := a.store.ListResultsByQuiz(ctx, id)
	if err != nil {
		return err
	}
	for _, result := range results {
		batch.Results = append(batch.Results, result.ID)
	}
	if err := a.store.DeleteBatch(ctx, batch); err != nil {
		return err
	}
	_, err = a.Refresh(ctx)
	return err
}

// checkSubject verifies the referenced subject exists.
func (a *App) checkSubject(ctx context.Context, id string) error {
	if _, err := a.store.GetSubject(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("subject %q: %w", id, storage.ErrDanglingReference)
		}
		return err
	}
	return nil
}

// checkChapter verifies the referenced chapter exists.
func (a *App) checkChapter(ctx context.Context, id string) error {
	if _, err := a.store.GetChapter(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("chapter %q: %w", id, storage.ErrDanglingReference)
		}
		return err
	}
	return nil
}
