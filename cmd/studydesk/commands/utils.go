// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Storage/facade wiring plus small display helpers
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/arjun/studydesk/internal/app"
	"github.com/arjun/studydesk/internal/config"
	"github.com/arjun/studydesk/internal/extract"
	"github.com/arjun/studydesk/internal/llm"
	"github.com/arjun/studydesk/internal/storage/sqlite"
)

// openStorage loads configuration and opens the SQLite store.
func openStorage() (*sqlite.Storage, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var store *sqlite.Storage
	if cfg.DBPath != "" {
		store, err = sqlite.NewStorageWithPath(cfg.DBPath)
	} else {
		store, err = sqlite.NewStorage()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, cfg, nil
}

// newFacade wires the facade over the store, attaching the AI generator when
// an API key is configured.
func newFacade(store *sqlite.Storage, cfg *config.Config) *app.App {
	opts := []app.Option{app.WithExtractor(extract.NewFileExtractor())}

	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:     cfg.OpenAIKey,
			ChatModel:  cfg.ChatModel,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "Warning: Could not initialize OpenAI client: %v\n", err)
			}
		} else {
			opts = append(opts, app.WithGenerator(client))
		}
	}
	return app.New(store, opts...)
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatMillis formats a millisecond timestamp for display
func formatMillis(ms int64) string {
	t := time.UnixMilli(ms)
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
