// ABOUTME: Tests for the aggregate facade over a real in-memory store
// ABOUTME: Covers seeding, snapshots, cascade deletes, dangling references, and generation
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arjun/studydesk/internal/extract"
	"github.com/arjun/studydesk/internal/llm"
	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
	"github.com/arjun/studydesk/internal/storage/sqlite"
)

func testApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store, opts...)
}

// fakeGenerator returns canned payloads, or an error when failing is set.
type fakeGenerator struct {
	failing bool
	quiz    *llm.GeneratedQuiz
	note    *llm.GeneratedNote
}

func (g *fakeGenerator) GenerateQuiz(ctx context.Context, topic string, difficulty models.Difficulty, contextText string) (*llm.GeneratedQuiz, error) {
	if g.failing {
		return nil, fmt.Errorf("model unavailable: %w", llm.ErrGenerationFailed)
	}
	if g.quiz != nil {
		return g.quiz, nil
	}
	return &llm.GeneratedQuiz{
		Title: "Quiz: " + topic,
		Questions: []models.Question{
			{
				Type:          models.QuestionMCQ,
				Text:          "Pick one",
				Options:       []string{"a", "b", "c", "d"},
				CorrectAnswer: "0",
				Explanation:   "a is first",
				Difficulty:    difficulty,
			},
		},
	}, nil
}

func (g *fakeGenerator) GenerateNotes(ctx context.Context, topic string, style models.NoteType, contextText string) (*llm.GeneratedNote, error) {
	if g.failing {
		return nil, fmt.Errorf("model unavailable: %w", llm.ErrGenerationFailed)
	}
	if g.note != nil {
		return g.note, nil
	}
	return &llm.GeneratedNote{Title: "Notes: " + topic, Content: "- fact one\n- fact two"}, nil
}

func TestRefresh_SeedsOnFirstRunOnly(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	snapshot, err := a.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snapshot.Subjects) != 3 {
		t.Fatalf("seeded subjects = %d, want 3", len(snapshot.Subjects))
	}
	for _, subject := range snapshot.Subjects {
		if len(snapshot.ChaptersBySubject[subject.ID]) == 0 {
			t.Errorf("seeded subject %s has no chapters", subject.Name)
		}
	}

	// Delete everything the user can see, then refresh: no reseed.
	for _, subject := range snapshot.Subjects {
		if err := a.DeleteSubject(ctx, subject.ID); err != nil {
			t.Fatalf("DeleteSubject: %v", err)
		}
	}
	snapshot, err = a.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh after delete-all: %v", err)
	}
	if len(snapshot.Subjects) != 0 {
		t.Errorf("subjects = %d after delete-all, want 0 (no reseed)", len(snapshot.Subjects))
	}
}

func TestAddChapter_DanglingSubject(t *testing.T) {
	a := testApp(t)
	_, err := a.AddChapter(context.Background(), "no-such-subject", "Title", "")
	if !errors.Is(err, storage.ErrDanglingReference) {
		t.Errorf("expected ErrDanglingReference, got %v", err)
	}
}

func TestAddNote_DanglingChapter(t *testing.T) {
	a := testApp(t)
	note := &models.Note{ChapterID: "no-such-chapter", Title: "t", Content: "c", Type: models.NoteBullet}
	err := a.AddNote(context.Background(), note)
	if !errors.Is(err, storage.ErrDanglingReference) {
		t.Errorf("expected ErrDanglingReference, got %v", err)
	}
}

func TestSaveQuizResult_DanglingQuiz(t *testing.T) {
	a := testApp(t)
	_, err := a.SaveQuizResult(context.Background(), "no-such-quiz", models.QuizResult{})
	if !errors.Is(err, storage.ErrDanglingReference) {
		t.Errorf("expected ErrDanglingReference, got %v", err)
	}
}

func TestSendChatMessage_DanglingSession(t *testing.T) {
	a := testApp(t)
	_, err := a.SendChatMessage(context.Background(), "no-such-chat", models.RoleUser, "hi")
	if !errors.Is(err, storage.ErrDanglingReference) {
		t.Errorf("expected ErrDanglingReference, got %v", err)
	}
}

func buildTree(t *testing.T, a *App) (subjectID, chapterID, quizID string) {
	t.Helper()
	ctx := context.Background()

	subject, err := a.AddSubject(ctx, "Chemistry", "🧪", "#8b5cf6")
	if err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	chapter, err := a.AddChapter(ctx, subject.ID, "Stoichiometry", "")
	if err != nil {
		t.Fatalf("AddChapter: %v", err)
	}
	note := &models.Note{ChapterID: chapter.ID, Title: "Moles", Content: "- 6.022e23", Type: models.NoteBullet}
	if err := a.AddNote(ctx, note); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	quiz := &models.Quiz{
		ChapterID: chapter.ID,
		Title:     "Mole quiz",
		Questions: []models.Question{
			{Type: models.QuestionTrueFalse, Text: "A mole is a count", CorrectAnswer: "true", Difficulty: models.DifficultyEasy},
		},
		SourceType: models.SourceManual,
	}
	if err := a.AddQuiz(ctx, quiz); err != nil {
		t.Fatalf("AddQuiz: %v", err)
	}
	if _, err := a.SaveQuizResult(ctx, quiz.ID, models.QuizResult{Score: 1, Answers: []string{"true"}}); err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	return subject.ID, chapter.ID, quiz.ID
}

func TestDeleteSubject_CascadesEverything(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	subjectID, chapterID, quizID := buildTree(t, a)

	if err := a.DeleteSubject(ctx, subjectID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}

	notes, _ := a.ChapterNotes(ctx, chapterID)
	if len(notes) != 0 {
		t.Errorf("notes survived cascade: %d", len(notes))
	}
	quizzes, _ := a.ChapterQuizzes(ctx, chapterID)
	if len(quizzes) != 0 {
		t.Errorf("quizzes survived cascade: %d", len(quizzes))
	}
	results, _ := a.QuizResults(ctx, quizID)
	if len(results) != 0 {
		t.Errorf("results survived cascade: %d", len(results))
	}
	if _, err := a.Quiz(ctx, quizID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("quiz survived cascade: %v", err)
	}
}

func TestDeleteQuiz_RemovesResults(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	_, _, quizID := buildTree(t, a)

	if err := a.DeleteQuiz(ctx, quizID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	results, _ := a.QuizResults(ctx, quizID)
	if len(results) != 0 {
		t.Errorf("results survived quiz delete: %d", len(results))
	}
}

func TestSaveQuizResult_PadsAnswers(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	_, chapterID, _ := buildTree(t, a)
	quiz := &models.Quiz{
		ChapterID: chapterID,
		Title:     "Three questions",
		Questions: []models.Question{
			{Type: models.QuestionTrueFalse, Text: "q1", CorrectAnswer: "true", Difficulty: models.DifficultyEasy},
			{Type: models.QuestionTrueFalse, Text: "q2", CorrectAnswer: "true", Difficulty: models.DifficultyEasy},
			{Type: models.QuestionTrueFalse, Text: "q3", CorrectAnswer: "false", Difficulty: models.DifficultyEasy},
		},
		SourceType: models.SourceManual,
	}
	if err := a.AddQuiz(ctx, quiz); err != nil {
		t.Fatalf("AddQuiz: %v", err)
	}

	saved, err := a.SaveQuizResult(ctx, quiz.ID, models.QuizResult{Score: 1, Answers: []string{"true"}})
	if err != nil {
		t.Fatalf("SaveQuizResult: %v", err)
	}
	if saved.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", saved.TotalQuestions)
	}
	if len(saved.Answers) != 3 {
		t.Fatalf("Answers length = %d, want 3 (padded)", len(saved.Answers))
	}
	if saved.ID == "" || saved.CompletedAt == 0 {
		t.Error("id and timestamp should be filled in")
	}
}

func TestSnapshotOrdering(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	_, chapterID, _ := buildTree(t, a)

	for i, title := range []string{"older", "newer"} {
		quiz := &models.Quiz{
			ChapterID: chapterID,
			Title:     title,
			Questions: []models.Question{
				{Type: models.QuestionTrueFalse, Text: "q", CorrectAnswer: "true", Difficulty: models.DifficultyEasy},
			},
			CreatedAt:  int64(1000 + i),
			SourceType: models.SourceManual,
		}
		if err := a.AddQuiz(ctx, quiz); err != nil {
			t.Fatalf("AddQuiz: %v", err)
		}
	}

	snapshot, err := a.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snapshot.Quizzes[0].Title == "older" {
		t.Error("quizzes should be newest first")
	}

	// Chats most-recently-updated first.
	first, _ := a.CreateChat(ctx, "first")
	second, _ := a.CreateChat(ctx, "second")
	time.Sleep(2 * time.Millisecond) // millisecond timestamps must not tie
	if _, err := a.SendChatMessage(ctx, first.ID, models.RoleUser, "bump"); err != nil {
		t.Fatalf("SendChatMessage: %v", err)
	}
	snapshot = a.Snapshot()
	if len(snapshot.Chats) != 2 {
		t.Fatalf("chats = %d, want 2", len(snapshot.Chats))
	}
	if snapshot.Chats[0].ID != first.ID {
		t.Errorf("bumped chat should be first, got %s (second=%s)", snapshot.Chats[0].ID, second.ID)
	}
}

func TestSubscribe(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	var calls int
	unsubscribe := a.Subscribe(func(Snapshot) { calls++ })

	if _, err := a.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d after one refresh, want 1", calls)
	}

	unsubscribe()
	if _, err := a.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if calls != 1 {
		t.Errorf("observer called after unsubscribe: calls = %d", calls)
	}
}

func TestChatMessages_DurableAndOrdered(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	chat, err := a.CreateChat(ctx, "Thermo questions")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := a.SendChatMessage(ctx, chat.ID, models.RoleUser, "what is entropy?"); err != nil {
		t.Fatalf("SendChatMessage: %v", err)
	}
	if _, err := a.SendChatMessage(ctx, chat.ID, models.RoleModel, "a measure of disorder"); err != nil {
		t.Fatalf("SendChatMessage: %v", err)
	}
	if _, err := a.SendChatMessage(ctx, chat.ID, "narrator", "nope"); err == nil {
		t.Error("unknown role accepted")
	}

	messages, err := a.ChatMessages(ctx, chat.ID)
	if err != nil {
		t.Fatalf("ChatMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	if messages[0].Role != models.RoleUser || messages[1].Role != models.RoleModel {
		t.Errorf("message order wrong: %+v", messages)
	}

	if err := a.DeleteChat(ctx, chat.ID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	messages, _ = a.ChatMessages(ctx, chat.ID)
	if len(messages) != 0 {
		t.Errorf("messages survived chat delete: %d", len(messages))
	}
}

func TestGenerateQuizFromTopic(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{}))
	ctx := context.Background()

	quiz, err := a.GenerateQuizFromTopic(ctx, "photosynthesis", models.DifficultyMedium, "", "")
	if err != nil {
		t.Fatalf("GenerateQuizFromTopic: %v", err)
	}
	if quiz.SourceType != models.SourceTopic {
		t.Errorf("SourceType = %q, want topic", quiz.SourceType)
	}
	if quiz.Questions[0].ID == "" {
		t.Error("question ids should be filled in")
	}

	stored, err := a.Quiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("generated quiz not persisted: %v", err)
	}
	if stored.Title != "Quiz: photosynthesis" {
		t.Errorf("Title = %q", stored.Title)
	}
}

func TestGenerateQuizFromTopic_WithContextIsTextSource(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{}))
	quiz, err := a.GenerateQuizFromTopic(context.Background(), "osmosis", models.DifficultyEasy, "", "cells and membranes...")
	if err != nil {
		t.Fatalf("GenerateQuizFromTopic: %v", err)
	}
	if quiz.SourceType != models.SourceText {
		t.Errorf("SourceType = %q, want text", quiz.SourceType)
	}
}

func TestGenerateQuiz_FailureLeavesStoreUntouched(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{failing: true}))
	ctx := context.Background()

	_, err := a.GenerateQuizFromTopic(ctx, "anything", models.DifficultyHard, "", "")
	if !errors.Is(err, llm.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	snapshot, _ := a.Refresh(ctx)
	if len(snapshot.Quizzes) != 0 {
		t.Errorf("failed generation persisted a quiz: %d", len(snapshot.Quizzes))
	}
}

func TestGenerateQuiz_InvalidPayloadRejected(t *testing.T) {
	gen := &fakeGenerator{
		quiz: &llm.GeneratedQuiz{
			Title: "Broken",
			Questions: []models.Question{
				// mcq with an out-of-range answer index must be rejected.
				{Type: models.QuestionMCQ, Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "7", Difficulty: models.DifficultyEasy},
			},
		},
	}
	a := testApp(t, WithGenerator(gen))
	ctx := context.Background()

	_, err := a.GenerateQuizFromTopic(ctx, "anything", models.DifficultyEasy, "", "")
	if !errors.Is(err, llm.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed for invalid payload, got %v", err)
	}
	snapshot, _ := a.Refresh(ctx)
	if len(snapshot.Quizzes) != 0 {
		t.Error("invalid generated quiz was persisted")
	}
}

func TestGenerateQuiz_NoGeneratorConfigured(t *testing.T) {
	a := testApp(t)
	_, err := a.GenerateQuizFromTopic(context.Background(), "anything", models.DifficultyEasy, "", "")
	if !errors.Is(err, llm.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed without generator, got %v", err)
	}
}

func TestGenerateQuizFromFile(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{}), WithExtractor(extract.NewFileExtractor()))
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "cells.txt")
	if err := os.WriteFile(path, []byte("The cell membrane is selectively permeable."), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	quiz, err := a.GenerateQuizFromFile(ctx, path, "", models.DifficultyMedium, "")
	if err != nil {
		t.Fatalf("GenerateQuizFromFile: %v", err)
	}
	if quiz.SourceType != models.SourceText {
		t.Errorf("SourceType = %q, want text for .txt input", quiz.SourceType)
	}
	if quiz.Title != "Quiz: cells" {
		t.Errorf("topic should default to the file name: %q", quiz.Title)
	}
}

func TestGenerateQuizFromFile_EmptyFile(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{}), WithExtractor(extract.NewFileExtractor()))

	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	_, err := a.GenerateQuizFromFile(context.Background(), path, "topic", models.DifficultyEasy, "")
	if !errors.Is(err, llm.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed for empty material, got %v", err)
	}
}

func TestGenerateNotes(t *testing.T) {
	a := testApp(t, WithGenerator(&fakeGenerator{}))
	ctx := context.Background()
	_, chapterID, _ := buildTree(t, a)

	note, err := a.GenerateNotes(ctx, chapterID, "entropy", models.NoteELI5)
	if err != nil {
		t.Fatalf("GenerateNotes: %v", err)
	}
	if note.Type != models.NoteELI5 {
		t.Errorf("Type = %q, want eli5", note.Type)
	}

	notes, _ := a.ChapterNotes(ctx, chapterID)
	found := false
	for _, n := range notes {
		if n.ID == note.ID {
			found = true
		}
	}
	if !found {
		t.Error("generated note not persisted under the chapter")
	}
}

func TestImportBackupReplace_NoReseed(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	if _, err := a.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Replace with an empty dataset. The seed marker lives outside the
	// backed-up collections, so the next refresh must not reseed.
	doc := &storage.BackupData{Version: storage.SupportedBackupVersion, Messages: map[string][]models.ChatMessage{}}
	if err := a.ImportBackup(ctx, doc, true); err != nil {
		t.Fatalf("ImportBackup replace: %v", err)
	}

	snapshot := a.Snapshot()
	if len(snapshot.Subjects) != 0 {
		t.Errorf("subjects = %d after empty replace import, want 0", len(snapshot.Subjects))
	}
}
