// ABOUTME: Tests for the unified SQLite storage layer
// ABOUTME: Exercises CRUD, parent-scoped listings, settings, and batch deletes
package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testQuiz(chapterID string) *models.Quiz {
	return &models.Quiz{
		ID:        models.NewID(),
		ChapterID: chapterID,
		Title:     "Fractions",
		Questions: []models.Question{
			{
				ID:            models.NewID(),
				Type:          models.QuestionMCQ,
				Text:          "1/2 + 1/4?",
				Options:       []string{"3/4", "2/6", "1/8"},
				CorrectAnswer: "0",
				Explanation:   "common denominator 4",
				Difficulty:    models.DifficultyEasy,
			},
			{
				ID:            models.NewID(),
				Type:          models.QuestionTrueFalse,
				Text:          "1/2 equals 0.5",
				CorrectAnswer: "true",
				Difficulty:    models.DifficultyEasy,
			},
		},
		CreatedAt:  models.NowMillis(),
		SourceType: models.SourceManual,
	}
}

func TestSubjectCRUD(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	subject := &models.Subject{ID: models.NewID(), Name: "Math", Icon: "📐", Color: "#f97316", CreatedAt: 1}
	if err := store.SaveSubject(ctx, subject); err != nil {
		t.Fatalf("SaveSubject: %v", err)
	}

	got, err := store.GetSubject(ctx, subject.ID)
	if err != nil {
		t.Fatalf("GetSubject: %v", err)
	}
	if got.Name != "Math" || got.Icon != "📐" || got.Color != "#f97316" {
		t.Errorf("got %+v", got)
	}

	// Save with the same id fully replaces the record.
	subject.Name = "Mathematics"
	if err := store.SaveSubject(ctx, subject); err != nil {
		t.Fatalf("SaveSubject update: %v", err)
	}
	got, _ = store.GetSubject(ctx, subject.ID)
	if got.Name != "Mathematics" {
		t.Errorf("Name = %q after update, want Mathematics", got.Name)
	}

	subjects, err := store.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("ListSubjects: %v", err)
	}
	if len(subjects) != 1 {
		t.Errorf("ListSubjects length = %d, want 1", len(subjects))
	}

	if err := store.DeleteSubject(ctx, subject.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	if _, err := store.GetSubject(ctx, subject.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	if _, err := store.GetChapter(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetChapter: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetQuiz(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetQuiz: expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetSetting(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSetting: expected ErrNotFound, got %v", err)
	}
}

func TestChaptersBySubject(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	for i, title := range []string{"One", "Two", "Three"} {
		c := &models.Chapter{ID: models.NewID(), SubjectID: "s1", Title: title, CreatedAt: int64(i)}
		if err := store.SaveChapter(ctx, c); err != nil {
			t.Fatalf("SaveChapter: %v", err)
		}
	}
	other := &models.Chapter{ID: models.NewID(), SubjectID: "s2", Title: "Elsewhere", CreatedAt: 9}
	_ = store.SaveChapter(ctx, other)

	chapters, err := store.ListChaptersBySubject(ctx, "s1")
	if err != nil {
		t.Fatalf("ListChaptersBySubject: %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("length = %d, want 3", len(chapters))
	}
	for i, want := range []string{"One", "Two", "Three"} {
		if chapters[i].Title != want {
			t.Errorf("chapters[%d] = %q, want %q (createdAt ascending)", i, chapters[i].Title, want)
		}
	}
}

func TestQuizRoundTripWithQuestions(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	quiz := testQuiz("c1")
	if err := store.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}

	got, err := store.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("questions length = %d, want 2", len(got.Questions))
	}
	if got.Questions[0].Text != "1/2 + 1/4?" || got.Questions[0].Options[0] != "3/4" {
		t.Errorf("question 0 did not round-trip: %+v", got.Questions[0])
	}
	if got.Questions[1].Type != models.QuestionTrueFalse {
		t.Errorf("question order not preserved: %+v", got.Questions)
	}
	if got.ChapterID != "c1" {
		t.Errorf("ChapterID = %q, want c1", got.ChapterID)
	}
}

func TestQuizWithoutChapter(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	quiz := testQuiz("")
	if err := store.SaveQuiz(ctx, quiz); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	got, err := store.GetQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if got.ChapterID != "" {
		t.Errorf("ChapterID = %q, want empty", got.ChapterID)
	}
}

func TestResultsByQuizNewestFirst(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := &models.QuizResult{
			ID:             models.NewID(),
			QuizID:         "q1",
			Score:          i,
			TotalQuestions: 3,
			Answers:        []string{"0", "1", "2"},
			CompletedAt:    int64(100 + i),
		}
		if err := store.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	results, err := store.ListResultsByQuiz(ctx, "q1")
	if err != nil {
		t.Fatalf("ListResultsByQuiz: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("length = %d, want 3", len(results))
	}
	if results[0].CompletedAt != 102 || results[2].CompletedAt != 100 {
		t.Errorf("results not newest first: %v %v %v",
			results[0].CompletedAt, results[1].CompletedAt, results[2].CompletedAt)
	}
	if len(results[0].Answers) != 3 {
		t.Errorf("answers did not round-trip: %+v", results[0].Answers)
	}
}

func TestMessagesInsertionOrder(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	chat := &models.ChatSession{ID: "ch1", Title: "Help", UpdatedAt: 1}
	if err := store.SaveChat(ctx, chat); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}

	// Same timestamp on purpose: order must come from insertion, not time.
	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		m := &models.ChatMessage{ID: models.NewID(), Role: models.RoleUser, Text: text, Timestamp: 42}
		if err := store.SaveMessage(ctx, "ch1", m); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	messages, err := store.ListMessagesBySession(ctx, "ch1")
	if err != nil {
		t.Fatalf("ListMessagesBySession: %v", err)
	}
	for i, want := range texts {
		if messages[i].Text != want {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i].Text, want)
		}
	}
}

func TestSettings(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	if err := store.SetSetting(ctx, "seeded", "1"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	value, err := store.GetSetting(ctx, "seeded")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if value != "1" {
		t.Errorf("value = %q, want 1", value)
	}

	if err := store.SetSetting(ctx, "seeded", "2"); err != nil {
		t.Fatalf("SetSetting upsert: %v", err)
	}
	value, _ = store.GetSetting(ctx, "seeded")
	if value != "2" {
		t.Errorf("value = %q after upsert, want 2", value)
	}
}

func TestDeleteBatch(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	subject := &models.Subject{ID: "s1", Name: "Math", CreatedAt: 1}
	chapter := &models.Chapter{ID: "c1", SubjectID: "s1", Title: "Algebra", CreatedAt: 1}
	note := &models.Note{ID: "n1", ChapterID: "c1", Title: "t", Content: "c", Type: models.NoteBullet, CreatedAt: 1}
	quiz := testQuiz("c1")
	result := &models.QuizResult{ID: "r1", QuizID: quiz.ID, Score: 1, TotalQuestions: 2, Answers: []string{"0", "x"}, CompletedAt: 1}
	chat := &models.ChatSession{ID: "ch1", Title: "Help", UpdatedAt: 1}

	_ = store.SaveSubject(ctx, subject)
	_ = store.SaveChapter(ctx, chapter)
	_ = store.SaveNote(ctx, note)
	_ = store.SaveQuiz(ctx, quiz)
	_ = store.SaveResult(ctx, result)
	_ = store.SaveChat(ctx, chat)
	_ = store.SaveMessage(ctx, "ch1", &models.ChatMessage{ID: "m1", Role: models.RoleUser, Text: "hi", Timestamp: 1})

	batch := storage.DeleteBatch{
		Subjects:        []string{"s1"},
		Chapters:        []string{"c1"},
		Notes:           []string{"n1"},
		Quizzes:         []string{quiz.ID},
		Results:         []string{"r1"},
		Chats:           []string{"ch1"},
		MessageSessions: []string{"ch1"},
	}
	if err := store.DeleteBatch(ctx, batch); err != nil {
		t.Fatalf("DeleteBatch: %v", err)
	}

	if _, err := store.GetSubject(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("subject survived batch delete")
	}
	if _, err := store.GetNote(ctx, "n1"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("note survived batch delete")
	}
	if _, err := store.GetQuiz(ctx, quiz.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Error("quiz survived batch delete")
	}
	messages, _ := store.ListMessagesBySession(ctx, "ch1")
	if len(messages) != 0 {
		t.Errorf("messages survived batch delete: %d", len(messages))
	}
}

func TestDeleteBatchEmptyIsNoOp(t *testing.T) {
	store := testStorage(t)
	if err := store.DeleteBatch(context.Background(), storage.DeleteBatch{}); err != nil {
		t.Fatalf("empty DeleteBatch: %v", err)
	}
}

func TestOpenCreatesFileAndPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "study.db")
	ctx := context.Background()

	store, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("NewStorageWithPath: %v", err)
	}
	subject := &models.Subject{ID: "s1", Name: "Math", CreatedAt: 1}
	if err := store.SaveSubject(ctx, subject); err != nil {
		t.Fatalf("SaveSubject: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen and verify the record survived.
	store, err = NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := store.GetSubject(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSubject after reopen: %v", err)
	}
	if got.Name != "Math" {
		t.Errorf("Name = %q, want Math", got.Name)
	}
}
