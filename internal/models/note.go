// ABOUTME: Note holds generated or hand-written study material
// ABOUTME: Content is markdown text in one of five presentation styles
package models

import "fmt"

// NoteType is the presentation style of a note.
type NoteType string

const (
	NoteBullet  NoteType = "bullet"
	NoteLong    NoteType = "long"
	NoteELI5    NoteType = "eli5"
	NoteFormula NoteType = "formula"
	NoteMindmap NoteType = "mindmap"
)

// Note represents one piece of study material owned by a chapter.
type Note struct {
	ID        string   `json:"id"`
	ChapterID string   `json:"chapterId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Type      NoteType `json:"type"`
	CreatedAt int64    `json:"createdAt"`
}

// ValidNoteType reports whether t is one of the known note styles.
func ValidNoteType(t NoteType) bool {
	switch t {
	case NoteBullet, NoteLong, NoteELI5, NoteFormula, NoteMindmap:
		return true
	}
	return false
}

// Validate checks required fields.
func (n *Note) Validate() error {
	if n.Title == "" {
		return fmt.Errorf("note title is required")
	}
	if n.Content == "" {
		return fmt.Errorf("note content is required")
	}
	if !ValidNoteType(n.Type) {
		return fmt.Errorf("unknown note type %q", n.Type)
	}
	return nil
}
