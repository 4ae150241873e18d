// ABOUTME: Subject commands: list, add, delete
// ABOUTME: Delete cascades through chapters, notes, quizzes, and results
package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	subjectIcon  string
	subjectColor string
)

// NewSubjectCmd creates the subject command group
func NewSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List subjects with their chapters",
		RunE:  runSubjectList,
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new subject",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubjectAdd,
	}
	addCmd.Flags().StringVar(&subjectIcon, "icon", "📚", "Emoji icon")
	addCmd.Flags().StringVar(&subjectColor, "color", "#3b82f6", "Hex accent color")

	deleteCmd := &cobra.Command{
		Use:   "delete <subject-id>",
		Short: "Delete a subject and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubjectDelete,
	}

	cmd.AddCommand(listCmd, addCmd, deleteCmd)
	return cmd
}

func runSubjectList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	snapshot, err := facade.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading subjects: %w", err)
	}

	for _, subject := range snapshot.Subjects {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(subject.Color)).
			Render(fmt.Sprintf("%s %s", subject.Icon, subject.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "%s  (%s)\n", title, subject.ID)
		for _, chapter := range snapshot.ChaptersBySubject[subject.ID] {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s  (%s)\n", chapter.Title, chapter.ID)
		}
	}
	if len(snapshot.Subjects) == 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "No subjects yet. Add one with: studydesk subject add <name>")
	}
	return nil
}

func runSubjectAdd(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	subject, err := facade.AddSubject(cmd.Context(), args[0], subjectIcon, subjectColor)
	if err != nil {
		return fmt.Errorf("adding subject: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added subject %s (%s)\n", subject.Name, subject.ID)
	}
	return nil
}

func runSubjectDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	if err := facade.DeleteSubject(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting subject: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted subject %s and its chapters, notes, quizzes, and results\n", args[0])
	}
	return nil
}
