// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Defines the studydesk banner and verbose/quiet output control
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

const banner = `
███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗
██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝
███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝
╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝
███████║   ██║   ╚██████╔╝██████╔╝   ██║
╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝  desk`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studydesk",
		Short: "Local-first study companion",
		Long: banner + `

studydesk keeps subjects, chapters, notes, quizzes, and tutor chats in a
local SQLite database. Notes and quizzes can be AI-generated, quizzes are
taken against the clock, and the whole dataset round-trips through a single
JSON backup file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewSubjectCmd())
	cmd.AddCommand(NewChapterCmd())
	cmd.AddCommand(NewNotesCmd())
	cmd.AddCommand(NewQuizCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewBackupCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
