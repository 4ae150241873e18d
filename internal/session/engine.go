// ABOUTME: Quiz session engine driving one attempt over a fixed question sequence
// ABOUTME: Explicit state machine with a cancelable one-second countdown ticker
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/arjun/studydesk/internal/models"
)

// Unanswered is the sentinel recorded for question indices the attempt never
// reached. It can never match a correct answer.
const Unanswered = "__unanswered__"

// DefaultSecondsPerQuestion is the per-question share of the time budget.
const DefaultSecondsPerQuestion = 60

// ErrNotFinished is returned by Result before the session reaches Finished.
var ErrNotFinished = errors.New("session not finished")

// State is the position of a session in its lifecycle.
type State int

const (
	// StateInProgress: the current question awaits an answer.
	StateInProgress State = iota
	// StateAnswerShown: the current question has a recorded answer and the
	// caller is reviewing feedback before advancing.
	StateAnswerShown
	// StateFinished: terminal. The result is available and fixed.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateAnswerShown:
		return "answer_shown"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSecondsPerQuestion overrides the per-question time budget.
func WithSecondsPerQuestion(seconds int) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.perQuestion = seconds
		}
	}
}

// WithClock substitutes the wall clock (for tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine runs one quiz attempt. It reads its question sequence once at
// construction and never touches storage; the finished result is handed back
// to the caller to persist. Retake means constructing a new engine; there
// is no in-place reset that could leak prior-answer state.
type Engine struct {
	mu          sync.Mutex
	questions   []models.Question
	answers     []string
	answered    []bool
	index       int
	state       State
	remaining   int
	perQuestion int
	now         func() time.Time
	result      models.QuizResult
	stop        chan struct{}
	stopOnce    sync.Once
}

// New creates an engine over an immutable ordered question sequence with a
// total time budget of perQuestion seconds times the question count.
func New(questions []models.Question, opts ...Option) *Engine {
	qs := make([]models.Question, len(questions))
	copy(qs, questions)

	e := &Engine{
		questions:   qs,
		answers:     make([]string, len(qs)),
		answered:    make([]bool, len(qs)),
		state:       StateInProgress,
		perQuestion: DefaultSecondsPerQuestion,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.remaining = e.perQuestion * len(qs)

	if len(qs) == 0 {
		e.finishLocked()
	}
	return e
}

// State returns the current state and question index.
func (e *Engine) State() (State, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.index
}

// Question returns the question at the current index.
func (e *Engine) Question() models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.questions[e.index]
}

// Total returns the question count.
func (e *Engine) Total() int {
	return len(e.questions)
}

// Remaining returns the remaining time budget in seconds.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// SubmitAnswer records value for the current question and moves to
// AnswerShown. Valid only while InProgress: a second submission before
// advancing is a no-op and never changes the recorded answer.
func (e *Engine) SubmitAnswer(value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return false
	}
	e.answers[e.index] = value
	e.answered[e.index] = true
	e.state = StateAnswerShown
	return true
}

// Advance leaves AnswerShown. On the last index it finishes the session and
// fixes the result; otherwise it moves to the next question, landing
// directly in AnswerShown when that index already has a recorded answer.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAnswerShown {
		return false
	}
	if e.index == len(e.questions)-1 {
		e.finishLocked()
		return true
	}
	e.index++
	if e.answered[e.index] {
		e.state = StateAnswerShown
	} else {
		e.state = StateInProgress
	}
	return true
}

// Start launches the countdown: one tick per second while the session is not
// finished. Reaching zero forces an immediate transition to Finished from
// whatever state the machine is in, scoring unanswered questions as
// incorrect. The goroutine exits on Stop or when the session finishes and
// never ticks after Finished.
func (e *Engine) Start() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				if e.tick() {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown. Safe to call multiple times and after finish.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// tick consumes one second of budget. Returns true once the session is
// finished.
func (e *Engine) tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateFinished {
		return true
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.finishLocked()
		return true
	}
	return false
}

// Result returns the attempt outcome. Valid only in Finished; the id and
// quiz reference are left for the caller to fill before persisting.
func (e *Engine) Result() (models.QuizResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateFinished {
		return models.QuizResult{}, ErrNotFinished
	}
	result := e.result
	result.Answers = make([]string, len(e.result.Answers))
	copy(result.Answers, e.result.Answers)
	return result, nil
}

// finishLocked scores the attempt and fixes the result exactly once.
// Callers hold e.mu.
func (e *Engine) finishLocked() {
	if e.state == StateFinished {
		return
	}
	e.state = StateFinished

	answers := make([]string, len(e.questions))
	score := 0
	for i := range e.questions {
		if !e.answered[i] {
			answers[i] = Unanswered
			continue
		}
		answers[i] = e.answers[i]
		if CheckAnswer(answers[i], e.questions[i]) {
			score++
		}
	}

	e.result = models.QuizResult{
		Score:          score,
		TotalQuestions: len(e.questions),
		Answers:        answers,
		CompletedAt:    e.now().UnixMilli(),
	}

	e.stopOnce.Do(func() { close(e.stop) })
}

// CheckAnswer applies the type-specific comparison rule: mcq answers match
// the correct option index string exactly, true/false ignores case, and
// fill-in/short answers compare trimmed and case-insensitive. Loose grading
// only: no partial credit, no fuzzy matching.
func CheckAnswer(given string, question models.Question) bool {
	if given == Unanswered {
		return false
	}
	switch question.Type {
	case models.QuestionMCQ:
		return given == question.CorrectAnswer
	case models.QuestionTrueFalse:
		return strings.EqualFold(given, question.CorrectAnswer)
	default:
		return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(question.CorrectAnswer))
	}
}
