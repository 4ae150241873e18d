// ABOUTME: Backup snapshot document model and its wire codec
// ABOUTME: Defines the versioned JSON format and its validation rules
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/arjun/studydesk/internal/models"
)

// SupportedBackupVersion is the newest snapshot format this code can read.
// Importing a document with a higher version fails with ErrInvalidBackup
// rather than silently truncating fields it does not understand.
const SupportedBackupVersion = 1

// BackupData is a complete point-in-time snapshot of every entity kind.
// Messages are grouped by owning session id, in store insertion order.
type BackupData struct {
	Version   int                             `json:"version"`
	Timestamp int64                           `json:"timestamp"`
	Subjects  []models.Subject                `json:"subjects"`
	Chapters  []models.Chapter                `json:"chapters"`
	Notes     []models.Note                   `json:"notes"`
	Quizzes   []models.Quiz                   `json:"quizzes"`
	Results   []models.QuizResult             `json:"results"`
	Chats     []models.ChatSession            `json:"chats"`
	Messages  map[string][]models.ChatMessage `json:"messages"`
}

// EncodeBackup serializes a snapshot to its transportable JSON form.
func EncodeBackup(d *BackupData) ([]byte, error) {
	if d.Messages == nil {
		d.Messages = map[string][]models.ChatMessage{}
	}
	return json.Marshal(d)
}

// requiredCollections are the top-level arrays every snapshot must carry.
var requiredCollections = []string{"subjects", "chapters", "notes", "quizzes", "results", "chats"}

// DecodeBackup parses and validates a snapshot document. Any malformed
// document, missing version, version newer than SupportedBackupVersion, or
// missing/non-array required collection yields ErrInvalidBackup.
func DecodeBackup(data []byte) (*BackupData, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidBackup, err)
	}

	verRaw, ok := raw["version"]
	if !ok {
		return nil, fmt.Errorf("%w: missing version field", ErrInvalidBackup)
	}
	var version int
	if err := json.Unmarshal(verRaw, &version); err != nil {
		return nil, fmt.Errorf("%w: version is not an integer: %v", ErrInvalidBackup, err)
	}
	if version > SupportedBackupVersion {
		return nil, fmt.Errorf("%w: snapshot version %d is newer than supported version %d",
			ErrInvalidBackup, version, SupportedBackupVersion)
	}
	if version < 1 {
		return nil, fmt.Errorf("%w: snapshot version %d is not valid", ErrInvalidBackup, version)
	}

	for _, key := range requiredCollections {
		colRaw, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q collection", ErrInvalidBackup, key)
		}
		var probe []json.RawMessage
		if err := json.Unmarshal(colRaw, &probe); err != nil {
			return nil, fmt.Errorf("%w: %q is not an array: %v", ErrInvalidBackup, key, err)
		}
	}

	doc := &BackupData{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if doc.Messages == nil {
		doc.Messages = map[string][]models.ChatMessage{}
	}
	return doc, nil
}
