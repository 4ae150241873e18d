// ABOUTME: MCP tool definitions and registration for the studydesk server
// ABOUTME: Defines JSON schemas for the study tools exposed over MCP
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/arjun/studydesk/internal/app"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, facade *app.App) *Handlers {
	handlers := &Handlers{app: facade}

	server.AddTool(mcp.Tool{
		Name:        "list_subjects",
		Description: "List all subjects with their chapters.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListSubjects)

	server.AddTool(mcp.Tool{
		Name:        "create_subject",
		Description: "Create a new subject.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Subject name",
				},
				"icon": map[string]interface{}{
					"type":        "string",
					"description": "Optional emoji icon",
				},
				"color": map[string]interface{}{
					"type":        "string",
					"description": "Optional hex accent color, e.g. #3b82f6",
				},
			},
			Required: []string{"name"},
		},
	}, handlers.CreateSubject)

	server.AddTool(mcp.Tool{
		Name:        "create_chapter",
		Description: "Create a chapter under an existing subject.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"subject_id": map[string]interface{}{
					"type":        "string",
					"description": "Owning subject id",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Chapter title",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional chapter description",
				},
			},
			Required: []string{"subject_id", "title"},
		},
	}, handlers.CreateChapter)

	server.AddTool(mcp.Tool{
		Name:        "save_note",
		Description: "Save a study note under a chapter.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chapter_id": map[string]interface{}{
					"type":        "string",
					"description": "Owning chapter id",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Note title",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "Note body in Markdown",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Note style: bullet, long, eli5, formula, or mindmap (default: bullet)",
				},
			},
			Required: []string{"chapter_id", "title", "content"},
		},
	}, handlers.SaveNote)

	server.AddTool(mcp.Tool{
		Name:        "list_notes",
		Description: "List the notes under a chapter, oldest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chapter_id": map[string]interface{}{
					"type":        "string",
					"description": "Chapter id to list notes for",
				},
			},
			Required: []string{"chapter_id"},
		},
	}, handlers.ListNotes)

	server.AddTool(mcp.Tool{
		Name:        "generate_quiz",
		Description: "Generate a quiz about a topic and store it. Optionally attach it to a chapter and ground it in supplied material.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Topic to quiz on",
				},
				"difficulty": map[string]interface{}{
					"type":        "string",
					"description": "easy, medium, or hard (default: medium)",
				},
				"chapter_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional chapter to attach the quiz to",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Optional source material to base questions on",
				},
			},
			Required: []string{"topic"},
		},
	}, handlers.GenerateQuiz)

	server.AddTool(mcp.Tool{
		Name:        "list_quizzes",
		Description: "List stored quizzes, newest first. Optionally filter by chapter.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chapter_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional chapter id to filter by",
				},
			},
		},
	}, handlers.ListQuizzes)

	server.AddTool(mcp.Tool{
		Name:        "list_results",
		Description: "List the attempt results for a quiz, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"quiz_id": map[string]interface{}{
					"type":        "string",
					"description": "Quiz id to list results for",
				},
			},
			Required: []string{"quiz_id"},
		},
	}, handlers.ListResults)

	server.AddTool(mcp.Tool{
		Name:        "export_backup",
		Description: "Export the whole study dataset as one versioned JSON backup document.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ExportBackup)

	server.AddTool(mcp.Tool{
		Name:        "import_backup",
		Description: "Import a versioned JSON backup document. By default records merge by id; with replace the current dataset is dropped first. The import is atomic.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Backup document JSON",
				},
				"replace": map[string]interface{}{
					"type":        "boolean",
					"description": "Drop the current dataset before importing (default: false)",
					"default":     false,
				},
			},
			Required: []string{"document"},
		},
	}, handlers.ImportBackup)

	return handlers
}
