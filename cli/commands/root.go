// Package commands implements the tinybird-go CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/tinybird-community/tinybird-go/internal/debug"
)

var debugEnabled bool

var rootCmd = &cobra.Command{
	Use:   "tinybird-go",
	Short: "Tinybird workspace tooling for Go",
	Long: `tinybird-go migrates legacy Tinybird datafiles (.datasource, .pipe,
.connection) into a generated Go module of declarative schema
definitions.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugEnabled)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "Enable debug logging")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
