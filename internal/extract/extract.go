// ABOUTME: Text extraction from study material files
// ABOUTME: Plain-text and Markdown files are read directly; binary formats are rejected
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxFileSize caps how much material one extraction reads.
const maxFileSize = 4 << 20 // 4 MiB

// Extractor turns a document on disk into plain text suitable for grounding
// generation.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// FileExtractor reads plain-text formats off the local filesystem.
type FileExtractor struct{}

// NewFileExtractor creates a FileExtractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// ExtractText reads the file and returns its text content. Unsupported or
// binary formats are rejected rather than fed to the generator as garbage.
func (e *FileExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".text", "":
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("file too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(data), nil
}
