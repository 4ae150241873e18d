// ABOUTME: Backup commands: export the dataset, import a backup document
// ABOUTME: JSON backups round-trip; YAML and Markdown exports are read-only views
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arjun/studydesk/internal/storage"
)

var (
	backupFormat  string
	backupOutput  string
	backupReplace bool
)

// NewBackupCmd creates the backup command group
func NewBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import the study dataset",
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole dataset",
		Long: `Export the whole dataset.

The json format is the versioned backup document and the only format that
imports back. yaml and markdown are read-only views for other tools.`,
		RunE: runBackupExport,
	}
	exportCmd.Flags().StringVar(&backupFormat, "format", "json", "Export format: json, yaml, or markdown")
	exportCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Output file (default stdout for json)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON backup document",
		Long: `Import a JSON backup document.

By default records merge into the current dataset by id, with the imported
record winning. With --replace the current dataset is dropped first. Either
way the import is atomic: a malformed or too-new document changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: runBackupImport,
	}
	importCmd.Flags().BoolVar(&backupReplace, "replace", false, "Drop the current dataset before importing")

	cmd.AddCommand(exportCmd, importCmd)
	return cmd
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	store, _, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	switch backupFormat {
	case "json":
		doc, err := store.ExportBackup(cmd.Context())
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding: %w", err)
		}
		if backupOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(backupOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", backupOutput, err)
		}

	case "yaml":
		if backupOutput == "" {
			return fmt.Errorf("--output is required for yaml export")
		}
		if err := store.ExportToYAML(cmd.Context(), backupOutput); err != nil {
			return fmt.Errorf("exporting yaml: %w", err)
		}

	case "markdown":
		if backupOutput == "" {
			return fmt.Errorf("--output is required for markdown export")
		}
		if err := store.ExportToMarkdown(cmd.Context(), backupOutput); err != nil {
			return fmt.Errorf("exporting markdown: %w", err)
		}

	default:
		return fmt.Errorf("unknown format %q (want json, yaml, or markdown)", backupFormat)
	}

	if !quiet && backupOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s backup to %s\n", backupFormat, backupOutput)
	}
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	doc, err := storage.DecodeBackup(data)
	if err != nil {
		return fmt.Errorf("invalid backup: %w", err)
	}

	store, cfg, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	facade := newFacade(store, cfg)
	if err := facade.ImportBackup(cmd.Context(), doc, backupReplace); err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	if !quiet {
		mode := "merged"
		if backupReplace {
			mode = "replaced dataset with"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported backup from %s (%s %d subjects, %d quizzes)\n",
			args[0], mode, len(doc.Subjects), len(doc.Quizzes))
	}
	return nil
}
