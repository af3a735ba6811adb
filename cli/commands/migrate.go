package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tinybird-community/tinybird-go/cli/internal/config"
	"github.com/tinybird-community/tinybird-go/cli/internal/ui"
	"github.com/tinybird-community/tinybird-go/cli/internal/watch"
	"github.com/tinybird-community/tinybird-go/datafile"
	"github.com/tinybird-community/tinybird-go/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [patterns...]",
	Short: "Migrate datafiles to a generated Go schema module",
	Long: `Migrate legacy datafiles into a single generated Go source module.

Patterns may be directories (walked recursively), datafile paths, or
glob expressions. Failing files are reported and skipped; sibling files
still migrate.`,
	RunE: runMigrate,
}

var (
	migrateCwd    string
	migrateOutput string
	migrateStrict bool
	migrateDryRun bool
	migrateForce  bool
	migrateWatch  bool
	migrateReport bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateCwd, "cwd", ".", "Working directory for discovery and output")
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "Output file path (default "+migrate.DefaultOutputFile+")")
	migrateCmd.Flags().BoolVar(&migrateStrict, "strict", true, "Treat unrecognized directives as errors")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Render without writing anything")
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false, "Overwrite an existing output file")
	migrateCmd.Flags().BoolVarP(&migrateWatch, "watch", "w", false, "Re-run the migration when datafiles change")
	migrateCmd.Flags().BoolVar(&migrateReport, "report", false, "Print a markdown migration report")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := migrate.Options{
		Patterns:   args,
		WorkingDir: migrateCwd,
		Strict:     migrateStrict,
		DryRun:     migrateDryRun,
		Overwrite:  migrateForce,
		OutputPath: migrateOutput,
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = cfg.Patterns
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"."}
	}
	if opts.OutputPath == "" {
		opts.OutputPath = cfg.OutputPath
	}
	if !cmd.Flags().Changed("strict") {
		opts.Strict = cfg.Strict
	}

	if migrateWatch {
		return runMigrateWatch(opts)
	}

	ui.PrintHeader("tinybird-go", "Datafile Migration")
	return executeMigration(opts)
}

func executeMigration(opts migrate.Options) error {
	engine := migrate.New(config.AppFs, nil)
	result, err := engine.Run(opts)
	if err != nil {
		return err
	}

	printResult(result)

	if migrateReport {
		if err := ui.PrintMarkdown(migrationReport(result)); err != nil {
			ui.PrintWarning("could not render report: %v", err)
		}
	}

	if !result.Success {
		return fmt.Errorf("migration finished with %d error(s)", len(result.Errors))
	}
	return nil
}

func printResult(result *migrate.Result) {
	for _, e := range result.Errors {
		datafile.PrettyPrintError(os.Stderr, e)
	}
	for _, w := range result.Warnings {
		datafile.PrettyPrintWarning(os.Stdout, w)
	}

	if len(result.Migrated) > 0 {
		rows := make([][]string, 0, len(result.Migrated))
		for _, res := range result.Migrated {
			rows = append(rows, []string{string(res.ResourceKind()), res.ResourceName(), res.SourcePath()})
		}
		ui.PrintTable([]string{"Kind", "Name", "File"}, rows)
		fmt.Println()
	}

	switch {
	case result.DryRun:
		ui.PrintInfo("Dry run: nothing written (output would be %s)", result.OutputPath)
		if result.OutputContent != "" {
			fmt.Println()
			fmt.Println(result.OutputContent)
		}
	case result.Success:
		ui.PrintSuccess("Migrated %d resource(s) to %s", len(result.Migrated), result.OutputPath)
	default:
		ui.PrintWarning("Partial migration: %d resource(s) written to %s, %d file(s) failed",
			len(result.Migrated), result.OutputPath, len(result.Errors))
	}
}

// migrationReport renders the run as markdown for the --report flag.
func migrationReport(result *migrate.Result) string {
	var b strings.Builder
	b.WriteString("# Migration Report\n\n")
	fmt.Fprintf(&b, "- Output: `%s`\n", result.OutputPath)
	fmt.Fprintf(&b, "- Migrated: %d\n", len(result.Migrated))
	fmt.Fprintf(&b, "- Errors: %d\n", len(result.Errors))
	fmt.Fprintf(&b, "- Warnings: %d\n\n", len(result.Warnings))

	if len(result.Migrated) > 0 {
		b.WriteString("## Migrated resources\n\n")
		for _, res := range result.Migrated {
			fmt.Fprintf(&b, "- **%s** `%s` (%s)\n", res.ResourceKind(), res.ResourceName(), res.SourcePath())
		}
		b.WriteString("\n")
	}
	if len(result.Errors) > 0 {
		b.WriteString("## Failed files\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- `%s`: %s\n", e.FilePath, e.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runMigrateWatch(opts migrate.Options) error {
	ui.PrintHeader("tinybird-go", "Watch Mode")

	first := true
	callback := func() error {
		if !first {
			ui.PrintInfo("Datafiles changed, re-running migration...")
		}
		runOpts := opts
		if !first {
			// Re-runs rewrite the module produced by the first pass.
			runOpts.Overwrite = true
		}
		first = false
		if err := executeMigration(runOpts); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	}

	watcher, err := watch.NewWatcher(opts.WorkingDir, callback)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	ui.PrintSuccess("Watching %s for datafile changes... (Press Ctrl+C to stop)", opts.WorkingDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ui.PrintInfo("\nStopping watch mode...")
	return nil
}
