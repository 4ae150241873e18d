// ABOUTME: Tests for environment-based configuration loading
// ABOUTME: Covers defaults, overrides, and validation bounds
package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"STUDYDESK_DB", "OPENAI_API_KEY", "STUDYDESK_OPENAI_MODEL",
		"OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES", "OPENAI_RETRY_DELAY",
		"STUDYDESK_SECONDS_PER_QUESTION",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v", cfg.RetryDelay)
	}
	if cfg.SecondsPerQuestion != 60 {
		t.Errorf("SecondsPerQuestion = %d", cfg.SecondsPerQuestion)
	}
	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty for the default data dir", cfg.DBPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STUDYDESK_DB", "/tmp/study.db")
	t.Setenv("STUDYDESK_OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("STUDYDESK_SECONDS_PER_QUESTION", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/study.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.SecondsPerQuestion != 30 {
		t.Errorf("SecondsPerQuestion = %d", cfg.SecondsPerQuestion)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("OPENAI_MAX_RETRIES", "lots")
	t.Setenv("OPENAI_TIMEOUT", "soon")
	t.Setenv("STUDYDESK_SECONDS_PER_QUESTION", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default for unparseable value", cfg.MaxRetries)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want default for unparseable value", cfg.Timeout)
	}
}

func TestValidate_Bounds(t *testing.T) {
	t.Setenv("OPENAI_MAX_RETRIES", "11")
	if _, err := Load(); err == nil {
		t.Error("expected error for MaxRetries > 10")
	}

	t.Setenv("OPENAI_MAX_RETRIES", "3")
	t.Setenv("STUDYDESK_SECONDS_PER_QUESTION", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-positive seconds per question")
	}
}
