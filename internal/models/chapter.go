// ABOUTME: Chapter groups notes and quizzes under a subject
// ABOUTME: SubjectID must reference an existing Subject at write time
package models

// Chapter represents one chapter of a subject.
type Chapter struct {
	ID          string `json:"id"`
	SubjectID   string `json:"subjectId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}
