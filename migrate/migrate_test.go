package migrate

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/tinybird-community/tinybird-go/datafile"
)

const (
	kafkaConnectionContent = `TYPE kafka
KAFKA_BOOTSTRAP_SERVERS "broker:9092"
KAFKA_SECURITY_PROTOCOL "SASL_SSL"
`

	eventsDatasourceContent = `DESCRIPTION "Raw events"

SCHEMA >
    id String ` + "`json:$.id`" + `,
    ts DateTime ` + "`json:$.timestamp`" + `

ENGINE "MergeTree"
ENGINE_SORTING_KEY "id, ts"
KAFKA_CONNECTION_NAME "main_kafka"
KAFKA_TOPIC "events"
`

	statsPipeContent = `NODE daily
SQL >
    SELECT toDate(ts) AS day, count() AS total
    FROM events
    GROUP BY day

TYPE endpoint
`
)

func seedWorkspace(t *testing.T, fs afero.Fs) {
	t.Helper()
	writeTestFile(t, fs, "/ws/main_kafka.connection", kafkaConnectionContent)
	writeTestFile(t, fs, "/ws/events.datasource", eventsDatasourceContent)
	writeTestFile(t, fs, "/ws/stats.pipe", statsPipeContent)
}

func TestRunMigratesWorkspace(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedWorkspace(t, fs)

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Errorf("Success = false, errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v", result.Errors)
	}
	if len(result.Migrated) != 3 {
		t.Fatalf("got %d migrated resources, want 3", len(result.Migrated))
	}

	// Emission order: connections, then datasources, then pipes.
	if result.Migrated[0].ResourceName() != "main_kafka" || result.Migrated[0].ResourceKind() != datafile.KindConnection {
		t.Errorf("resource 0 = %s %s", result.Migrated[0].ResourceKind(), result.Migrated[0].ResourceName())
	}
	if result.Migrated[1].ResourceName() != "events" {
		t.Errorf("resource 1 = %s", result.Migrated[1].ResourceName())
	}
	if result.Migrated[2].ResourceName() != "stats" {
		t.Errorf("resource 2 = %s", result.Migrated[2].ResourceName())
	}

	content, readErr := afero.ReadFile(fs, "/ws/tinybird_migration.go")
	if readErr != nil {
		t.Fatalf("output file not written: %v", readErr)
	}
	text := string(content)
	for _, want := range []string{
		"// Code generated by tinybird-go migrate. DO NOT EDIT.",
		"package tinybird",
		"schema.CreateKafkaConnection",
		`Name: "main_kafka"`,
		"schema.DefineDataSource",
		`Name: "events"`,
		"schema.DefinePipe",
		`Name: "stats"`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated module missing %q", want)
		}
	}
}

func TestRunSkipsBrokenFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/events.datasource", eventsDatasourceContent)
	writeTestFile(t, fs, "/ws/broken.pipe", "NODE a\nSQL >\n    SELECT 1\nFOO-bar\n")

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Success {
		t.Error("Success = true, want false")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].FilePath != "broken.pipe" {
		t.Errorf("error file = %q", result.Errors[0].FilePath)
	}
	if len(result.Migrated) != 1 || result.Migrated[0].ResourceName() != "events" {
		t.Fatalf("Migrated = %+v", result.Migrated)
	}

	content, readErr := afero.ReadFile(fs, "/ws/tinybird_migration.go")
	if readErr != nil {
		t.Fatalf("output file not written: %v", readErr)
	}
	text := string(content)
	if !strings.Contains(text, `Name: "events"`) {
		t.Error("generated module missing surviving datasource")
	}
	if strings.Contains(text, "broken") {
		t.Error("generated module mentions the failed pipe")
	}
}

func TestRunWritesNothingWhenNothingMigrates(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/broken.pipe", "NODE a\nSQL >\n    SELECT 1\nFOO-bar\n")

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Error("Success = true, want false")
	}
	if len(result.Migrated) != 0 {
		t.Errorf("Migrated = %+v", result.Migrated)
	}
	if exists, _ := afero.Exists(fs, "/ws/tinybird_migration.go"); exists {
		t.Error("fully failed run left an output artifact")
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedWorkspace(t, fs)

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.DryRun {
		t.Error("DryRun = false")
	}
	if !strings.Contains(result.OutputContent, "package tinybird") {
		t.Error("OutputContent missing rendered module")
	}
	if exists, _ := afero.Exists(fs, "/ws/tinybird_migration.go"); exists {
		t.Error("dry run wrote the output file")
	}
}

func TestRunRefusesToOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedWorkspace(t, fs)
	writeTestFile(t, fs, "/ws/tinybird_migration.go", "package tinybird\n")

	_, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
	})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("err = %v, want overwrite refusal", err)
	}

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
		Overwrite:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error with overwrite: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false, errors: %v", result.Errors)
	}
}

func TestRunDeterministicOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedWorkspace(t, fs)
	writeTestFile(t, fs, "/ws/zz.datasource", "SCHEMA >\n    id String\n\nENGINE \"MergeTree\"\n")
	writeTestFile(t, fs, "/ws/aa.datasource", "SCHEMA >\n    id String\n\nENGINE \"MergeTree\"\n")

	run := func() string {
		result, err := New(fs, nil).Run(Options{
			Patterns:   []string{"."},
			WorkingDir: "/ws",
			Strict:     true,
			DryRun:     true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return result.OutputContent
	}

	first := run()
	second := run()
	if first != second {
		t.Error("repeated runs produced different output")
	}

	aa := strings.Index(first, `Name: "aa"`)
	zz := strings.Index(first, `Name: "zz"`)
	if aa < 0 || zz < 0 || aa > zz {
		t.Errorf("datasources not emitted in name order (aa@%d, zz@%d)", aa, zz)
	}
}

func TestRunDanglingConnectionWarns(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/events.datasource", eventsDatasourceContent)

	result, err := New(fs, nil).Run(Options{
		Patterns:   []string{"."},
		WorkingDir: "/ws",
		Strict:     true,
		DryRun:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Errorf("Success = false, errors: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "main_kafka") {
			found = true
		}
	}
	if !found {
		t.Errorf("no dangling-connection warning in %v", result.Warnings)
	}
}
