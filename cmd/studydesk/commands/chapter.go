// ABOUTME: Chapter commands: add chapters under a subject
// ABOUTME: Listing happens through subject list, which shows the tree
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var chapterDescription string

// NewChapterCmd creates the chapter command group
func NewChapterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapter",
		Short: "Manage chapters",
	}

	addCmd := &cobra.Command{
		Use:   "add <subject-id> <title>",
		Short: "Add a chapter under a subject",
		Args:  cobra.ExactArgs(2),
		RunE:  runChapterAdd,
	}
	addCmd.Flags().StringVar(&chapterDescription, "description", "", "Chapter description")

	cmd.AddCommand(addCmd)
	return cmd
}

func runChapterAdd(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	chapter, err := facade.AddChapter(cmd.Context(), args[0], args[1], chapterDescription)
	if err != nil {
		return fmt.Errorf("adding chapter: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added chapter %s (%s)\n", chapter.Title, chapter.ID)
	}
	return nil
}
