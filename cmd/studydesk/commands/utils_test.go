// ABOUTME: Tests for shared CLI helper functions
// ABOUTME: Covers truncation and relative timestamp formatting

package commands

import (
	"testing"
	"time"

	"github.com/arjun/studydesk/internal/models"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 10, "this is..."},
		{"ab", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestTruncate_MultibyteSafe(t *testing.T) {
	got := truncate("数学は楽しい科目です", 8)
	if got != "数学は楽し..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestFormatMillis(t *testing.T) {
	now := models.NowMillis()

	if got := formatMillis(now); got != "just now" {
		t.Errorf("formatMillis(now) = %q", got)
	}
	if got := formatMillis(now - 5*time.Minute.Milliseconds()); got != "5m ago" {
		t.Errorf("formatMillis(-5m) = %q", got)
	}
	if got := formatMillis(now - 3*time.Hour.Milliseconds()); got != "3h ago" {
		t.Errorf("formatMillis(-3h) = %q", got)
	}
	if got := formatMillis(now - 2*24*time.Hour.Milliseconds()); got != "2d ago" {
		t.Errorf("formatMillis(-2d) = %q", got)
	}

	old := formatMillis(now - 30*24*time.Hour.Milliseconds())
	if len(old) != len("2006-01-02") {
		t.Errorf("old timestamps should render as a date, got %q", old)
	}
}
