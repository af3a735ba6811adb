package commands

import (
	"fmt"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tinybird-community/tinybird-go/cli/internal/config"
	"github.com/tinybird-community/tinybird-go/cli/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Scaffold a datafile project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

var initYes bool

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept all defaults without prompting")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	datasourceName := "events"
	withKafka := true
	if !initYes {
		questions := []*survey.Question{
			{
				Name:     "datasource",
				Prompt:   &survey.Input{Message: "Name for the sample datasource:", Default: datasourceName},
				Validate: survey.Required,
			},
			{
				Name:   "kafka",
				Prompt: &survey.Confirm{Message: "Include a sample Kafka connection?", Default: true},
			},
		}
		answers := struct {
			Datasource string
			Kafka      bool
		}{}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
		datasourceName = answers.Datasource
		withKafka = answers.Kafka
	}

	ui.PrintHeader("tinybird-go", "Project Setup")

	if dir != "." {
		if err := config.AppFs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	files := scaffoldFiles(datasourceName, withKafka)
	for name, content := range files {
		path := filepath.Join(dir, name)
		if exists, _ := afero.Exists(config.AppFs, path); exists {
			ui.PrintWarning("Skipping %s: already exists", path)
			continue
		}
		if err := afero.WriteFile(config.AppFs, path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		ui.PrintSuccess("Created %s", path)
	}

	fmt.Println()
	ui.PrintSection("Next Steps")
	ui.PrintList([]string{
		"Edit the datafiles to match your workspace",
		"Run: tinybird-go validate",
		"Run: tinybird-go migrate",
	})
	return nil
}

func scaffoldFiles(datasourceName string, withKafka bool) map[string]string {
	files := map[string]string{
		datasourceName + ".datasource": `DESCRIPTION "Raw events"

SCHEMA >
    id String ` + "`json:$.id`" + `,
    ts DateTime ` + "`json:$.timestamp`" + `,
    payload String ` + "`json:$.payload`" + `

ENGINE "MergeTree"
ENGINE_SORTING_KEY "id, ts"
`,
		datasourceName + "_by_day.pipe": `DESCRIPTION "Daily event counts"

NODE daily
SQL >
    SELECT toDate(ts) AS day, count() AS total
    FROM ` + datasourceName + `
    GROUP BY day

TYPE endpoint
`,
		".gitignore": `tinybird_migration.go
.env
.env.local
`,
		".env.example": `# Tokens and secrets used by your datafiles
# TINYBIRD_GO_OUTPUT_PATH=tinybird_migration.go
`,
	}
	if withKafka {
		files["main_kafka.connection"] = `TYPE kafka

KAFKA_BOOTSTRAP_SERVERS "localhost:9092"
KAFKA_SECURITY_PROTOCOL "SASL_SSL"
KAFKA_SASL_MECHANISM "PLAIN"
`
	}
	return files
}
