// ABOUTME: QuizResult records one finished quiz attempt
// ABOUTME: Immutable once created; answers are positional against the quiz questions
package models

import "math"

// QuizResult is the outcome of a single quiz attempt. Answers[i] corresponds
// to Questions[i] of the referenced quiz; the slice is always padded to the
// question count before interpretation.
type QuizResult struct {
	ID             string   `json:"id"`
	QuizID         string   `json:"quizId"`
	Score          int      `json:"score"`
	TotalQuestions int      `json:"totalQuestions"`
	Answers        []string `json:"answers"`
	CompletedAt    int64    `json:"completedAt"`
}

// Percentage returns the rounded whole-number score percentage.
func (r *QuizResult) Percentage() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.TotalQuestions) * 100))
}
