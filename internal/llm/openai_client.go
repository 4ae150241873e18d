// ABOUTME: OpenAI client for quiz, note, and tutor-chat generation
// ABOUTME: Uses gpt-4o-mini for structured JSON generation (configurable) with retry
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/util"
)

// DefaultChatModel is the default model for chat completions
const DefaultChatModel = "gpt-4o-mini"

// ErrGenerationFailed means the model returned nothing usable after all
// retries. Nothing is persisted when this is returned.
var ErrGenerationFailed = errors.New("generation failed")

// GeneratedQuiz is the model's quiz payload before it becomes a stored quiz.
type GeneratedQuiz struct {
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions"`
}

// GeneratedNote is the model's note payload before it becomes a stored note.
type GeneratedNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey     string
	ChatModel  string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("STUDYDESK_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  chatModel,
		MaxRetries: 3,
		RetryDelay: time.Second * 2,
		Timeout:    time.Second * 60,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client     *openai.Client
	chatModel  string
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Second * 60
	}

	client := openai.NewClient(config.APIKey)

	return &OpenAIClient{
		client:     client,
		chatModel:  config.ChatModel,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		timeout:    config.Timeout,
	}, nil
}

const quizSystemPrompt = `You are a quiz generation assistant for students. Generate a quiz as a JSON object:
{
  "title": "quiz title",
  "questions": [
    {
      "type": "mcq" | "true_false" | "fill_blank" | "short_answer",
      "text": "the question",
      "options": ["option A", "option B", ...],
      "correctAnswer": "...",
      "explanation": "why this answer is correct",
      "difficulty": "easy" | "medium" | "hard"
    }
  ]
}

Rules:
- For "mcq" questions provide at least 4 options and set correctAnswer to the index of the correct option as a string ("0", "1", ...).
- For "true_false" set correctAnswer to "true" or "false" and leave options empty.
- For "fill_blank" and "short_answer" set correctAnswer to the expected text and leave options empty.
- Every question needs an explanation.
- Generate 8-10 questions.

Return ONLY the JSON object. No additional text.`

// GenerateQuiz generates a quiz about a topic at the requested difficulty.
// A non-empty contextText grounds every question in the supplied material.
func (c *OpenAIClient) GenerateQuiz(ctx context.Context, topic string, difficulty models.Difficulty, contextText string) (*GeneratedQuiz, error) {
	userPrompt := fmt.Sprintf("Generate a %s quiz about: %s", difficulty, topic)
	if contextText != "" {
		userPrompt += fmt.Sprintf("\n\nBase every question strictly on this material:\n\n%s", contextText)
	}

	content, err := c.complete(ctx, quizSystemPrompt, userPrompt, 0.7)
	if err != nil {
		return nil, err
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(stripFences(content)), &quiz); err != nil {
		return nil, fmt.Errorf("parse quiz response: %v: %w", err, ErrGenerationFailed)
	}
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("empty quiz response: %w", ErrGenerationFailed)
	}
	return &quiz, nil
}

var noteStylePrompts = map[models.NoteType]string{
	models.NoteBullet:  "concise bullet points covering the key facts",
	models.NoteLong:    "a thorough long-form explanation with sections",
	models.NoteELI5:    "a simple explanation a twelve-year-old would understand, with everyday analogies",
	models.NoteFormula: "a formula sheet: every relevant formula with its variables defined",
	models.NoteMindmap: "an indented text mind map radiating from the central concept",
}

// GenerateNotes generates study notes about a topic in the requested style.
func (c *OpenAIClient) GenerateNotes(ctx context.Context, topic string, style models.NoteType, contextText string) (*GeneratedNote, error) {
	stylePrompt, ok := noteStylePrompts[style]
	if !ok {
		return nil, fmt.Errorf("unknown note style %q", style)
	}

	systemPrompt := fmt.Sprintf(`You are a study note assistant. Write %s in Markdown.
Return ONLY a JSON object: {"title": "note title", "content": "markdown body"}. No additional text.`, stylePrompt)

	userPrompt := fmt.Sprintf("Write study notes about: %s", topic)
	if contextText != "" {
		userPrompt += fmt.Sprintf("\n\nBase the notes on this material:\n\n%s", contextText)
	}

	content, err := c.complete(ctx, systemPrompt, userPrompt, 0.5)
	if err != nil {
		return nil, err
	}

	var note GeneratedNote
	if err := json.Unmarshal([]byte(stripFences(content)), &note); err != nil {
		return nil, fmt.Errorf("parse note response: %v: %w", err, ErrGenerationFailed)
	}
	if note.Title == "" || note.Content == "" {
		return nil, fmt.Errorf("empty note response: %w", ErrGenerationFailed)
	}
	return &note, nil
}

// Chat produces a tutor reply to a conversation history.
func (c *OpenAIClient) Chat(ctx context.Context, history []models.ChatMessage) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a patient study tutor. Answer clearly and concretely, with short worked examples where they help.",
		},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    messages,
			Temperature: 0.7,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("chat failed after %d attempts: %v: %w", c.maxRetries+1, lastErr, ErrGenerationFailed)
}

// complete runs one system+user completion with retry and returns the raw
// message content.
func (c *OpenAIClient) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: temperature,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("completion failed after %d attempts: %v: %w", c.maxRetries+1, lastErr, ErrGenerationFailed)
}

// stripFences removes a Markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
