// ABOUTME: Note commands: list, add, generate, show, delete
// ABOUTME: Generation asks the AI for notes in one of the five note styles
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arjun/studydesk/internal/models"
)

var (
	noteFile  string
	noteStyle string
)

// NewNotesCmd creates the notes command group
func NewNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage study notes",
	}

	listCmd := &cobra.Command{
		Use:   "list <chapter-id>",
		Short: "List the notes under a chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotesList,
	}

	addCmd := &cobra.Command{
		Use:   "add <chapter-id> <title> [content]",
		Short: "Add a note",
		Long: `Add a note under a chapter. Content comes from the argument, --file,
or stdin, in that order of preference.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: runNotesAdd,
	}
	addCmd.Flags().StringVar(&noteFile, "file", "", "Read note content from file")
	addCmd.Flags().StringVar(&noteStyle, "style", string(models.NoteBullet), "Note style: bullet, long, eli5, formula, mindmap")

	generateCmd := &cobra.Command{
		Use:   "generate <chapter-id> <topic>",
		Short: "Generate AI notes about a topic",
		Args:  cobra.ExactArgs(2),
		RunE:  runNotesGenerate,
	}
	generateCmd.Flags().StringVar(&noteStyle, "style", string(models.NoteBullet), "Note style: bullet, long, eli5, formula, mindmap")

	showCmd := &cobra.Command{
		Use:   "show <chapter-id> <note-id>",
		Short: "Print a note's full content",
		Args:  cobra.ExactArgs(2),
		RunE:  runNotesShow,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotesDelete,
	}

	cmd.AddCommand(listCmd, addCmd, generateCmd, showCmd, deleteCmd)
	return cmd
}

func runNotesList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	notes, err := facade.ChapterNotes(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}

	for _, note := range notes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]  %s  (%s)\n",
			formatMillis(note.CreatedAt), note.Type, truncate(note.Title, 50), note.ID)
	}
	if len(notes) == 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "No notes in this chapter yet.")
	}
	return nil
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var content string
	if len(args) == 3 {
		content = args[2]
	} else if noteFile != "" {
		data, err := os.ReadFile(noteFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		content = string(data)
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("no note content provided")
	}

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	note := &models.Note{
		ChapterID: args[0],
		Title:     args[1],
		Content:   content,
		Type:      models.NoteType(noteStyle),
	}
	if err := facade.AddNote(cmd.Context(), note); err != nil {
		return fmt.Errorf("adding note: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added note %s (%s)\n", note.Title, note.ID)
	}
	return nil
}

func runNotesGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	note, err := facade.GenerateNotes(cmd.Context(), args[0], args[1], models.NoteType(noteStyle))
	if err != nil {
		return fmt.Errorf("generating notes: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Generated note %s (%s)\n\n", note.Title, note.ID)
	}
	fmt.Fprintln(cmd.OutOrStdout(), note.Content)
	return nil
}

func runNotesShow(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	notes, err := facade.ChapterNotes(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	for _, note := range notes {
		if note.ID != args[1] {
			continue
		}
		title := lipgloss.NewStyle().Bold(true).Render(note.Title)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s]\n\n%s\n", title, note.Type, note.Content)
		return nil
	}
	return fmt.Errorf("note %q not found in chapter %q", args[1], args[0])
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	if err := facade.DeleteNote(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted note %s\n", args[0])
	}
	return nil
}
