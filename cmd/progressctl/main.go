package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"letterpath/internal/config"
	"letterpath/internal/database"
	"letterpath/internal/logger"
	"letterpath/internal/repository"
	"letterpath/internal/service"
)

// storeOpener opens the progress store and returns a function releasing it
type storeOpener func() (service.BackupStore, func(), error)

func main() {
	log, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	root := newRootCmd(openDatabase(config.Load()), log, os.Stdin, os.Stdout)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDatabase(cfg *config.Config) storeOpener {
	return func() (service.BackupStore, func(), error) {
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		// Run migrations to ensure schema is up to date
		if _, err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repository.NewSettingsRepository(db), func() { db.Close() }, nil
	}
}

func newRootCmd(open storeOpener, log *logger.Logger, in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "progressctl",
		Short: "Inspect, back up and reset stored learning progress",
		Long: `progressctl works directly on the progress database configured by
DB_TYPE, DB_PATH and DATABASE_URL. Stop the server before importing or
resetting: it keeps progress in memory and will overwrite changes.`,
		SilenceUsage: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	withBackup := func(fn func(cmd *cobra.Command, backup *service.BackupService) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := open()
			if err != nil {
				return err
			}
			defer closeStore()
			return fn(cmd, service.NewBackupService(store, log))
		}
	}

	root.AddCommand(
		newShowCmd(withBackup),
		newExportCmd(withBackup),
		newImportCmd(withBackup),
		newResetCmd(withBackup),
	)
	return root
}

type backupRunner func(fn func(cmd *cobra.Command, backup *service.BackupService) error) func(*cobra.Command, []string) error

func newShowCmd(withBackup backupRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print stored progress as JSON",
		Args:  cobra.NoArgs,
		RunE: withBackup(func(cmd *cobra.Command, backup *service.BackupService) error {
			snap, err := backup.Snapshot()
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(snap)
		}),
	}
}

func newExportCmd(withBackup backupRunner) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress to a JSON file",
		Args:  cobra.NoArgs,
		RunE: withBackup(func(cmd *cobra.Command, backup *service.BackupService) error {
			if output == "" {
				output = fmt.Sprintf("progress_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}
			if err := backup.ExportToFile(output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported progress to %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: progress_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd(withBackup backupRunner) *cobra.Command {
	var (
		input string
		clear bool
		yes   bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import progress from a JSON file",
		Args:  cobra.NoArgs,
		RunE: withBackup(func(cmd *cobra.Command, backup *service.BackupService) error {
			if clear && !yes && !confirm(cmd, "WARNING: This will delete all existing progress.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}
			if err := backup.ImportFromFile(input, clear); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Import complete!")
			return nil
		}),
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove stored keys the backup does not contain (destructive)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newResetCmd(withBackup backupRunner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress to a new learner",
		Args:  cobra.NoArgs,
		RunE: withBackup(func(cmd *cobra.Command, backup *service.BackupService) error {
			if !yes && !confirm(cmd, "WARNING: This will erase all unlocked letters and the streak.") {
				fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled")
				return nil
			}
			if err := backup.ResetProgress(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Progress reset")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, warning string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s Type 'yes' to confirm: ", warning)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}
