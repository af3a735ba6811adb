package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinybird-community/tinybird-go/cli/internal/config"
	"github.com/tinybird-community/tinybird-go/cli/internal/ui"
	"github.com/tinybird-community/tinybird-go/datafile"
	"github.com/tinybird-community/tinybird-go/migrate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [patterns...]",
	Short: "Parse datafiles and report problems without generating code",
	RunE:  runValidate,
}

var (
	validateCwd    string
	validateStrict bool
)

func init() {
	validateCmd.Flags().StringVar(&validateCwd, "cwd", ".", "Working directory for discovery")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", true, "Treat unrecognized directives as errors")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	engine := migrate.New(config.AppFs, nil)
	result, err := engine.Run(migrate.Options{
		Patterns:   patterns,
		WorkingDir: validateCwd,
		Strict:     validateStrict,
		DryRun:     true,
	})
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		datafile.PrettyPrintError(os.Stderr, e)
	}
	for _, w := range result.Warnings {
		datafile.PrettyPrintWarning(os.Stdout, w)
	}

	if !result.Success {
		return fmt.Errorf("validation failed: %d file(s) with errors", len(result.Errors))
	}
	ui.PrintSuccess("All %d datafile(s) are valid", len(result.Migrated))
	return nil
}
