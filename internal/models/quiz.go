// ABOUTME: Quiz and Question entities plus their validation rules
// ABOUTME: Questions are stored as an ordered sequence inside the quiz record
package models

import (
	"fmt"
	"strconv"
)

// QuestionType is the answer-capture style of a question.
type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionFillBlank   QuestionType = "fill_blank"
	QuestionShortAnswer QuestionType = "short_answer"
)

// Difficulty is the declared difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SourceType records how a quiz was produced.
type SourceType string

const (
	SourceTopic  SourceType = "topic"
	SourcePDF    SourceType = "pdf"
	SourceManual SourceType = "manual"
	SourceText   SourceType = "text"
)

// Question is one question inside a quiz. For mcq questions CorrectAnswer is
// the option index as a string ("0", "1", ...); for all other types it is the
// literal expected text.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Difficulty    Difficulty   `json:"difficulty"`
}

// Quiz represents one stored quiz. ChapterID is empty for ad-hoc quizzes.
type Quiz struct {
	ID         string     `json:"id"`
	ChapterID  string     `json:"chapterId,omitempty"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions"`
	CreatedAt  int64      `json:"createdAt"`
	SourceType SourceType `json:"sourceType"`
}

// ValidQuestionType reports whether t is a known question type.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionMCQ, QuestionTrueFalse, QuestionFillBlank, QuestionShortAnswer:
		return true
	}
	return false
}

// ValidDifficulty reports whether d is a known difficulty.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ValidSourceType reports whether s is a known quiz source.
func ValidSourceType(s SourceType) bool {
	switch s {
	case SourceTopic, SourcePDF, SourceManual, SourceText:
		return true
	}
	return false
}

// Validate checks the question shape, including mcq option/index coherence.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if !ValidQuestionType(q.Type) {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("question correct answer is required")
	}
	if !ValidDifficulty(q.Difficulty) {
		return fmt.Errorf("unknown difficulty %q", q.Difficulty)
	}
	if q.Type == QuestionMCQ {
		if len(q.Options) < 2 {
			return fmt.Errorf("mcq question needs at least 2 options, got %d", len(q.Options))
		}
		idx, err := strconv.Atoi(q.CorrectAnswer)
		if err != nil {
			return fmt.Errorf("mcq correct answer must be an option index: %q", q.CorrectAnswer)
		}
		if idx < 0 || idx >= len(q.Options) {
			return fmt.Errorf("mcq correct answer index %d out of range [0,%d)", idx, len(q.Options))
		}
	}
	return nil
}

// Validate checks the quiz shape: a title, a non-empty ordered question
// sequence, and every question valid.
func (z *Quiz) Validate() error {
	if z.Title == "" {
		return fmt.Errorf("quiz title is required")
	}
	if len(z.Questions) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	if !ValidSourceType(z.SourceType) {
		return fmt.Errorf("unknown quiz source %q", z.SourceType)
	}
	for i := range z.Questions {
		if err := z.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
