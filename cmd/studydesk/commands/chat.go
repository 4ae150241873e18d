// ABOUTME: Tutor chat commands: list, new, send, show, delete
// ABOUTME: Messages are persisted before the AI reply is requested
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arjun/studydesk/internal/llm"
	"github.com/arjun/studydesk/internal/models"
)

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	modelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
)

// NewChatCmd creates the chat command group
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Tutor chat sessions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List chat sessions, most recent first",
		RunE:  runChatList,
	}

	newCmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Start a new chat session",
		Args:  cobra.ExactArgs(1),
		RunE:  runChatNew,
	}

	sendCmd := &cobra.Command{
		Use:   "send <session-id> <message>",
		Short: "Send a message and print the tutor's reply",
		Args:  cobra.ExactArgs(2),
		RunE:  runChatSend,
	}

	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session's messages in order",
		Args:  cobra.ExactArgs(1),
		RunE:  runChatShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runChatDelete,
	}

	cmd.AddCommand(listCmd, newCmd, sendCmd, showCmd, deleteCmd)
	return cmd
}

func runChatList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	snapshot, err := facade.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading chats: %w", err)
	}

	for _, chat := range snapshot.Chats {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n",
			formatMillis(chat.UpdatedAt), truncate(chat.Title, 50), chat.ID)
	}
	if len(snapshot.Chats) == 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "No chats yet. Start one with: studydesk chat new <title>")
	}
	return nil
}

func runChatNew(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	chat, err := facade.CreateChat(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("creating chat: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Started chat %s (%s)\n", chat.Title, chat.ID)
	}
	return nil
}

func runChatSend(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	sessionID := args[0]

	if _, err := facade.SendChatMessage(cmd.Context(), sessionID, models.RoleUser, args[1]); err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	if cfg.OpenAIKey == "" {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Message stored. Set OPENAI_API_KEY to get tutor replies.")
		}
		return nil
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:     cfg.OpenAIKey,
		ChatModel:  cfg.ChatModel,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("initializing OpenAI client: %w", err)
	}

	history, err := facade.ChatMessages(cmd.Context(), sessionID)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	reply, err := client.Chat(cmd.Context(), history)
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: tutor reply failed: %v\n", err)
		}
		return fmt.Errorf("tutor reply: %w", err)
	}

	if _, err := facade.SendChatMessage(cmd.Context(), sessionID, models.RoleModel, reply); err != nil {
		return fmt.Errorf("storing reply: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", modelStyle.Render("tutor:"), reply)
	return nil
}

func runChatShow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	messages, err := facade.ChatMessages(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	for _, message := range messages {
		label := userStyle.Render("you:")
		if message.Role == models.RoleModel {
			label = modelStyle.Render("tutor:")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", label, message.Text)
	}
	return nil
}

func runChatDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	if err := facade.DeleteChat(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted chat %s\n", args[0])
	}
	return nil
}
