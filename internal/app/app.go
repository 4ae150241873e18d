// ABOUTME: Aggregate access facade composing record store reads and writes
// ABOUTME: Publishes atomic snapshots to observers; all mutations flow through here
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/arjun/studydesk/internal/extract"
	"github.com/arjun/studydesk/internal/llm"
	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// settingSeeded marks that the first-run dataset has been planted. The
// marker is persisted so a user-initiated delete-all never reseeds.
const settingSeeded = "seeded"

// Generator produces quiz and note content. Implemented by the llm package;
// substitutable in tests.
type Generator interface {
	GenerateQuiz(ctx context.Context, topic string, difficulty models.Difficulty, contextText string) (*llm.GeneratedQuiz, error)
	GenerateNotes(ctx context.Context, topic string, style models.NoteType, contextText string) (*llm.GeneratedNote, error)
}

// Snapshot is one atomic, UI-ready view of the store. Observers never see a
// half-updated view.
type Snapshot struct {
	Subjects          []models.Subject
	ChaptersBySubject map[string][]models.Chapter
	Quizzes           []models.Quiz        // createdAt descending
	Chats             []models.ChatSession // updatedAt descending
}

// App is the single choke point between callers and the record store.
type App struct {
	store     storage.Store
	generator Generator
	extractor extract.Extractor

	mu       sync.RWMutex
	snapshot Snapshot

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures an App.
type Option func(*App)

// WithGenerator attaches the content-generation collaborator.
func WithGenerator(g Generator) Option {
	return func(a *App) { a.generator = g }
}

// WithExtractor attaches the text-extraction collaborator.
func WithExtractor(e extract.Extractor) Option {
	return func(a *App) { a.extractor = e }
}

// New creates a facade over the given store.
func New(store storage.Store, opts ...Option) *App {
	a := &App{
		store: store,
		subs:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Subscribe registers an observer called with every published snapshot. The
// returned function unsubscribes.
func (a *App) Subscribe(fn func(Snapshot)) func() {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		delete(a.subs, id)
	}
}

// Snapshot returns the last published snapshot.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Refresh rebuilds the derived view from the store and publishes it as one
// atomic snapshot. On a first run against an empty subject store it seeds a
// small demonstration dataset exactly once.
func (a *App) Refresh(ctx context.Context) (Snapshot, error) {
	subjects, err := a.store.ListSubjects(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("refresh: %w", err)
	}

	if len(subjects) == 0 {
		seeded, err := a.maybeSeed(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		if seeded {
			if subjects, err = a.store.ListSubjects(ctx); err != nil {
				return Snapshot{}, fmt.Errorf("refresh: %w", err)
			}
		}
	}

	sort.Slice(subjects, func(i, j int) bool { return subjects[i].CreatedAt < subjects[j].CreatedAt })

	chaptersBySubject := make(map[string][]models.Chapter, len(subjects))
	for _, subject := range subjects {
		chapters, err := a.store.ListChaptersBySubject(ctx, subject.ID)
		if err != nil {
			return Snapshot{}, fmt.Errorf("refresh: %w", err)
		}
		chaptersBySubject[subject.ID] = chapters
	}

	quizzes, err := a.store.ListQuizzes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("refresh: %w", err)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].CreatedAt > quizzes[j].CreatedAt })

	chats, err := a.store.ListChats(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("refresh: %w", err)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].UpdatedAt > chats[j].UpdatedAt })

	snapshot := Snapshot{
		Subjects:          subjects,
		ChaptersBySubject: chaptersBySubject,
		Quizzes:           quizzes,
		Chats:             chats,
	}
	a.publish(snapshot)
	return snapshot, nil
}

// publish stores the snapshot and notifies observers outside the lock.
func (a *App) publish(snapshot Snapshot) {
	a.mu.Lock()
	a.snapshot = snapshot
	a.mu.Unlock()

	a.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// maybeSeed plants the demonstration dataset if it never has been. Returns
// whether seeding happened.
func (a *App) maybeSeed(ctx context.Context) (bool, error) {
	_, err := a.store.GetSetting(ctx, settingSeeded)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("seed check: %w", err)
	}

	if err := a.seed(ctx); err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if err := a.store.SetSetting(ctx, settingSeeded, "1"); err != nil {
		return false, fmt.Errorf("seed marker: %w", err)
	}
	return true, nil
}

// seed writes three starter subjects with a chapter each and a welcome note.
func (a *App) seed(ctx context.Context) error {
	now := models.NowMillis()

	starters := []struct {
		name, icon, color, chapter string
	}{
		{"Mathematics", "📐", "#f97316", "Algebra Basics"},
		{"Physics", "🔬", "#3b82f6", "Mechanics"},
		{"Computer Science", "💻", "#10b981", "Data Structures"},
	}

	for i, starter := range starters {
		subject := &models.Subject{
			ID:        models.NewID(),
			Name:      starter.name,
			Icon:      starter.icon,
			Color:     starter.color,
			CreatedAt: now + int64(i),
		}
		if err := a.store.SaveSubject(ctx, subject); err != nil {
			return err
		}

		chapter := &models.Chapter{
			ID:        models.NewID(),
			SubjectID: subject.ID,
			Title:     starter.chapter,
			CreatedAt: now + int64(i),
		}
		if err := a.store.SaveChapter(ctx, chapter); err != nil {
			return err
		}

		if i == 0 {
			note := &models.Note{
				ID:        models.NewID(),
				ChapterID: chapter.ID,
				Title:     "Welcome to studydesk",
				Content:   "- Generate notes and quizzes per chapter\n- Take quizzes against the clock\n- Back up everything to a single JSON file",
				Type:      models.NoteBullet,
				CreatedAt: now,
			}
			if err := a.store.SaveNote(ctx, note); err != nil {
				return err
			}
		}
	}
	return nil
}
