// ABOUTME: Content generation flows on the facade
// ABOUTME: Generated payloads are validated and persisted; failures leave the store untouched
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arjun/studydesk/internal/llm"
	"github.com/arjun/studydesk/internal/models"
)

// GenerateQuizFromTopic asks the generator for a quiz about a topic and
// persists it. An optional non-empty contextText grounds the questions in
// supplied material. Nothing is written when generation or validation fails.
func (a *App) GenerateQuizFromTopic(ctx context.Context, topic string, difficulty models.Difficulty, chapterID, contextText string) (*models.Quiz, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("no generator configured: %w", llm.ErrGenerationFailed)
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if chapterID != "" {
		if err := a.checkChapter(ctx, chapterID); err != nil {
			return nil, err
		}
	}

	generated, err := a.generator.GenerateQuiz(ctx, topic, difficulty, contextText)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	source := models.SourceTopic
	if contextText != "" {
		source = models.SourceText
	}
	quiz := &models.Quiz{
		ID:         models.NewID(),
		ChapterID:  chapterID,
		Title:      generated.Title,
		Questions:  generated.Questions,
		CreatedAt:  models.NowMillis(),
		SourceType: source,
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == "" {
			quiz.Questions[i].ID = models.NewID()
		}
	}
	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("generated quiz rejected: %v: %w", err, llm.ErrGenerationFailed)
	}
	if err := a.store.SaveQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	if _, err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GenerateQuizFromFile extracts text from a document and generates a quiz
// grounded in it.
func (a *App) GenerateQuizFromFile(ctx context.Context, path, topic string, difficulty models.Difficulty, chapterID string) (*models.Quiz, error) {
	if a.extractor == nil {
		return nil, fmt.Errorf("no extractor configured: %w", llm.ErrGenerationFailed)
	}
	text, err := a.extractor.ExtractText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %v: %w", path, err, llm.ErrGenerationFailed)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract %s: no usable text: %w", path, llm.ErrGenerationFailed)
	}
	if topic == "" {
		topic = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	quiz, err := a.GenerateQuizFromTopic(ctx, topic, difficulty, chapterID, text)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		quiz.SourceType = models.SourcePDF
		if err := a.store.SaveQuiz(ctx, quiz); err != nil {
			return nil, err
		}
	}
	return quiz, nil
}

// GenerateNotes asks the generator for a note in the requested style and
// persists it under the chapter.
func (a *App) GenerateNotes(ctx context.Context, chapterID, topic string, style models.NoteType) (*models.Note, error) {
	if a.generator == nil {
		return nil, fmt.Errorf("no generator configured: %w", llm.ErrGenerationFailed)
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if !models.ValidNoteType(style) {
		return nil, fmt.Errorf("unknown note style %q", style)
	}
	if err := a.checkChapter(ctx, chapterID); err != nil {
		return nil, err
	}

	generated, err := a.generator.GenerateNotes(ctx, topic, style, "")
	if err != nil {
		return nil, fmt.Errorf("generate notes: %w", err)
	}

	note := &models.Note{
		ID:        models.NewID(),
		ChapterID: chapterID,
		Title:     generated.Title,
		Content:   generated.Content,
		Type:      style,
		CreatedAt: models.NowMillis(),
	}
	if err := note.Validate(); err != nil {
		return nil, fmt.Errorf("generated note rejected: %v: %w", err, llm.ErrGenerationFailed)
	}
	if err := a.store.SaveNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
