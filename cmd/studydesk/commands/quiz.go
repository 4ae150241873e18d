// ABOUTME: Quiz commands: list, generate, take, results, delete
// ABOUTME: Take runs the interactive timed session loop in the terminal
package commands

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arjun/studydesk/internal/models"
	"github.com/arjun/studydesk/internal/session"
)

var (
	quizChapter    string
	quizDifficulty string
	quizFile       string
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// NewQuizCmd creates the quiz command group
func NewQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Manage and take quizzes",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List quizzes, newest first",
		RunE:  runQuizList,
	}

	generateCmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate an AI quiz about a topic",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizGenerate,
	}
	generateCmd.Flags().StringVar(&quizChapter, "chapter", "", "Attach the quiz to a chapter")
	generateCmd.Flags().StringVar(&quizDifficulty, "difficulty", string(models.DifficultyMedium), "easy, medium, or hard")
	generateCmd.Flags().StringVar(&quizFile, "file", "", "Ground the questions in a text or Markdown file")

	takeCmd := &cobra.Command{
		Use:   "take <quiz-id>",
		Short: "Take a quiz against the clock",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizTake,
	}

	resultsCmd := &cobra.Command{
		Use:   "results <quiz-id>",
		Short: "Show past results for a quiz",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizResults,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a quiz and its results",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuizDelete,
	}

	cmd.AddCommand(listCmd, generateCmd, takeCmd, resultsCmd, deleteCmd)
	return cmd
}

func runQuizList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	snapshot, err := facade.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading quizzes: %w", err)
	}

	for _, quiz := range snapshot.Quizzes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d questions  [%s]  (%s)\n",
			formatMillis(quiz.CreatedAt), truncate(quiz.Title, 40), len(quiz.Questions), quiz.SourceType, quiz.ID)
	}
	if len(snapshot.Quizzes) == 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "No quizzes yet. Generate one with: studydesk quiz generate <topic>")
	}
	return nil
}

func runQuizGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	difficulty := models.Difficulty(quizDifficulty)

	var quiz *models.Quiz
	if quizFile != "" {
		quiz, err = facade.GenerateQuizFromFile(cmd.Context(), quizFile, args[0], difficulty, quizChapter)
	} else {
		quiz, err = facade.GenerateQuizFromTopic(cmd.Context(), args[0], difficulty, quizChapter, "")
	}
	if err != nil {
		return fmt.Errorf("generating quiz: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Generated quiz %s with %d questions (%s)\n",
			quiz.Title, len(quiz.Questions), quiz.ID)
	}
	return nil
}

func runQuizTake(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	quiz, err := facade.Quiz(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading quiz: %w", err)
	}

	engine := session.New(quiz.Questions, session.WithSecondsPerQuestion(cfg.SecondsPerQuestion))
	engine.Start()
	defer engine.Stop()

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprintf(out, "%s\n%s\n\n", questionStyle.Render(quiz.Title),
		dimStyle.Render(fmt.Sprintf("%d questions, %ds total", engine.Total(), engine.Remaining())))

	for {
		state, index := engine.State()
		if state == session.StateFinished {
			break
		}

		question := engine.Question()
		fmt.Fprintf(out, "%s %s\n", dimStyle.Render(fmt.Sprintf("[%d/%d, %ds left]", index+1, engine.Total(), engine.Remaining())),
			questionStyle.Render(question.Text))
		for i, option := range question.Options {
			fmt.Fprintf(out, "  %d) %s\n", i, option)
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())

		if !engine.SubmitAnswer(answer) {
			// Timer fired between prompt and submission.
			break
		}

		if session.CheckAnswer(answer, question) {
			fmt.Fprintln(out, correctStyle.Render("✓ Correct"))
		} else {
			fmt.Fprintln(out, wrongStyle.Render(fmt.Sprintf("✗ Wrong (answer: %s)", renderAnswer(question))))
		}
		if question.Explanation != "" {
			fmt.Fprintln(out, dimStyle.Render(question.Explanation))
		}
		fmt.Fprintln(out)

		engine.Advance()
	}

	result, err := engine.Result()
	if err != nil {
		// Input ended before the session finished; nothing to record.
		return nil
	}

	saved, err := facade.SaveQuizResult(cmd.Context(), quiz.ID, result)
	if err != nil {
		return fmt.Errorf("saving result: %w", err)
	}

	fmt.Fprintf(out, "%s\n", questionStyle.Render(
		fmt.Sprintf("Score: %d/%d (%d%%)", saved.Score, saved.TotalQuestions, saved.Percentage())))
	return nil
}

// renderAnswer shows the correct answer in human form: the option text for
// mcq questions, the literal answer otherwise.
func renderAnswer(q models.Question) string {
	if q.Type == models.QuestionMCQ {
		if idx, err := strconv.Atoi(q.CorrectAnswer); err == nil && idx >= 0 && idx < len(q.Options) {
			return q.Options[idx]
		}
	}
	return q.CorrectAnswer
}

func runQuizResults(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	results, err := facade.QuizResults(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}

	for _, result := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %d/%d (%d%%)\n",
			formatMillis(result.CompletedAt), result.Score, result.TotalQuestions, result.Percentage())
	}
	if len(results) == 0 && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "No results for this quiz yet.")
	}
	return nil
}

func runQuizDelete(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	if err := facade.DeleteQuiz(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting quiz: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted quiz %s and its results\n", args[0])
	}
	return nil
}
