package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinybird-community/tinybird-go/cli/internal/update"
)

// Version is the CLI version, overridable at build time with
// -ldflags "-X .../cli/commands.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("tinybird-go version %s\n", Version)
		return update.CheckForUpdates(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
