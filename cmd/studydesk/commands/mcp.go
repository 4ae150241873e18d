// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to manage study material via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/arjun/studydesk/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs studydesk as an MCP (Model Context Protocol) server, enabling
LLM agents to manage subjects, notes, quizzes, and backups via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  studydesk mcp

  # Configure in an MCP client config:
  # {
  #   "mcpServers": {
  #     "studydesk": {
  #       "command": "studydesk",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" && !quiet {
		log.Println("Warning: OPENAI_API_KEY not set - quiz and note generation will not work")
	}

	store, cfg, err := openStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	facade := newFacade(store, cfg)

	server := mcpserver.NewMCPServer(
		"studydesk",
		"0.1.0",
	)
	mcp.RegisterTools(server, facade)

	// Graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("studydesk MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
		if err := store.Close(); err != nil {
			log.Printf("Warning: Error closing storage: %v", err)
		}

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
