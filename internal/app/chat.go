// ABOUTME: Chat session and message operations on the facade
// ABOUTME: Messages are durably stored before they are surfaced to callers
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/storage"
)

// CreateChat starts a new chat session and republishes the chat list.
func (a *App) CreateChat(ctx context.Context, title string) (*models.ChatSession, error) {
	if title == "" {
		title = "New chat"
	}
	chat := &models.ChatSession{
		ID:        models.NewID(),
		Title:     title,
		UpdatedAt: models.NowMillis(),
	}
	if err := a.store.SaveChat(ctx, chat); err != nil {
		return nil, err
	}
	a.publishChats(ctx)
	return chat, nil
}

// SendChatMessage appends a message to an existing session and bumps the
// session's recency. The message is persisted before it is returned.
func (a *App) SendChatMessage(ctx context.Context, sessionID, role, text string) (*models.ChatMessage, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown chat role %q", role)
	}
	chat, err := a.store.GetChat(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("chat %q: %w", sessionID, storage.ErrDanglingReference)
		}
		return nil, err
	}

	message := &models.ChatMessage{
		ID:        models.NewID(),
		Role:      role,
		Text:      text,
		Timestamp: models.NowMillis(),
	}
	if err := a.store.SaveMessage(ctx, sessionID, message); err != nil {
		return nil, err
	}

	chat.UpdatedAt = message.Timestamp
	if err := a.store.SaveChat(ctx, chat); err != nil {
		return nil, err
	}
	a.publishChats(ctx)
	return message, nil
}

// ChatMessages returns a session's messages in insertion order.
func (a *App) ChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	return a.store.ListMessagesBySession(ctx, sessionID)
}

// DeleteChat removes a session together with its messages.
func (a *App) DeleteChat(ctx context.Context, id string) error {
	batch := storage.DeleteBatch{
		Chats:           []string{id},
		MessageSessions: []string{id},
	}
	if err := a.store.DeleteBatch(ctx, batch); err != nil {
		return err
	}
	a.publishChats(ctx)
	return nil
}

// publishChats refreshes only the chat list in the snapshot. Chat traffic is
// high-frequency relative to the rest of the store, so it does not pay for a
// full rebuild.
func (a *App) publishChats(ctx context.Context) {
	chats, err := a.store.ListChats(ctx)
	if err != nil {
		return
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].UpdatedAt > chats[j].UpdatedAt })

	a.mu.Lock()
	snapshot := a.snapshot
	snapshot.Chats = chats
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
