// ABOUTME: MCP tool handler implementations for the studydesk server
// ABOUTME: All tools route through the facade so its invariants hold over MCP too
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/arjun/studydesk/internal/app"
	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	app *app.App
}

// ListSubjects handles the list_subjects tool
func (h *Handlers) ListSubjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := h.app.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
	}

	type subjectView struct {
		models.Subject
		Chapters []models.Chapter `json:"chapters"`
	}
	views := make([]subjectView, 0, len(snapshot.Subjects))
	for _, subject := range snapshot.Subjects {
		views = append(views, subjectView{
			Subject:  subject,
			Chapters: snapshot.ChaptersBySubject[subject.ID],
		})
	}
	return jsonResult(views)
}

// CreateSubject handles the create_subject tool
func (h *Handlers) CreateSubject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}
	icon := request.GetString("icon", "📚")
	color := request.GetString("color", "#3b82f6")

	subject, err := h.app.AddSubject(ctx, name, icon, color)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create subject failed: %v", err)), nil
	}
	return jsonResult(subject)
}

// CreateChapter handles the create_chapter tool
func (h *Handlers) CreateChapter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjectID, err := request.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError("subject_id argument is required and must be a string"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}
	description := request.GetString("description", "")

	chapter, err := h.app.AddChapter(ctx, subjectID, title, description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("create chapter failed: %v", err)), nil
	}
	return jsonResult(chapter)
}

// SaveNote handles the save_note tool
func (h *Handlers) SaveNote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapterID, err := request.RequireString("chapter_id")
	if err != nil {
		return mcp.NewToolResultError("chapter_id argument is required and must be a string"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title argument is required and must be a string"), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	noteType := models.NoteType(request.GetString("type", string(models.NoteBullet)))

	note := &models.Note{
		ChapterID: chapterID,
		Title:     title,
		Content:   content,
		Type:      noteType,
	}
	if err := h.app.AddNote(ctx, note); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save note failed: %v", err)), nil
	}
	return jsonResult(note)
}

// ListNotes handles the list_notes tool
func (h *Handlers) ListNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapterID, err := request.RequireString("chapter_id")
	if err != nil {
		return mcp.NewToolResultError("chapter_id argument is required and must be a string"), nil
	}
	notes, err := h.app.ChapterNotes(ctx, chapterID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list notes failed: %v", err)), nil
	}
	return jsonResult(notes)
}

// GenerateQuiz handles the generate_quiz tool
func (h *Handlers) GenerateQuiz(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic argument is required and must be a string"), nil
	}
	difficulty := models.Difficulty(request.GetString("difficulty", string(models.DifficultyMedium)))
	chapterID := request.GetString("chapter_id", "")
	contextText := request.GetString("context", "")

	quiz, err := h.app.GenerateQuizFromTopic(ctx, topic, difficulty, chapterID, contextText)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate quiz failed: %v", err)), nil
	}
	return jsonResult(quiz)
}

// ListQuizzes handles the list_quizzes tool
func (h *Handlers) ListQuizzes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapterID := request.GetString("chapter_id", "")
	if chapterID != "" {
		quizzes, err := h.app.ChapterQuizzes(ctx, chapterID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list quizzes failed: %v", err)), nil
		}
		return jsonResult(quizzes)
	}

	snapshot, err := h.app.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list quizzes failed: %v", err)), nil
	}
	return jsonResult(snapshot.Quizzes)
}

// ListResults handles the list_results tool
func (h *Handlers) ListResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quizID, err := request.RequireString("quiz_id")
	if err != nil {
		return mcp.NewToolResultError("quiz_id argument is required and must be a string"), nil
	}
	results, err := h.app.QuizResults(ctx, quizID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list results failed: %v", err)), nil
	}
	return jsonResult(results)
}

// ExportBackup handles the export_backup tool
func (h *Handlers) ExportBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := h.app.ExportBackup(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	data, err := storage.EncodeBackup(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ImportBackup handles the import_backup tool
func (h *Handlers) ImportBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	document, err := request.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document argument is required and must be a string"), nil
	}
	replace := request.GetBool("replace", false)

	doc, err := storage.DecodeBackup([]byte(document))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid backup document: %v", err)), nil
	}
	if err := h.app.ImportBackup(ctx, doc, replace); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}
	return mcp.NewToolResultText("backup imported"), nil
}

// jsonResult marshals a payload as an indented JSON tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
