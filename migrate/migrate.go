package migrate

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/tinybird-community/tinybird-go/datafile"
	"github.com/tinybird-community/tinybird-go/generator"
	"github.com/tinybird-community/tinybird-go/internal/debug"
)

// DefaultOutputFile is the generated module's conventional file name.
const DefaultOutputFile = "tinybird_migration.go"

// Options configures one migration run.
type Options struct {
	Patterns   []string
	WorkingDir string
	Strict     bool
	DryRun     bool
	Overwrite  bool
	OutputPath string // defaults to DefaultOutputFile under WorkingDir
}

// Result is the outcome of a migration run. A non-empty Errors list next
// to a non-empty Migrated list is a valid outcome: failing files never
// suppress their siblings.
type Result struct {
	Success       bool
	Errors        []datafile.MigrationError
	Warnings      []string
	Migrated      []datafile.Resource
	OutputPath    string
	DryRun        bool
	OutputContent string // rendered module text, dry-run only
}

// Engine runs migrations over a filesystem. It is synchronous and
// stateless across runs; identical inputs produce byte-identical output.
type Engine struct {
	fs       afero.Fs
	resolver IncludeResolver
}

// New builds an Engine. A nil fs defaults to the OS filesystem and a nil
// resolver to glob expansion on the same filesystem.
func New(fs afero.Fs, resolver IncludeResolver) *Engine {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Engine{fs: fs, resolver: resolver}
}

// Run executes the full pipeline: discovery, per-file parsing,
// normalization, generation and (unless dry-run) writing. Discovery and
// parse failures are collected into the result; only the final write can
// fail the run itself.
func (e *Engine) Run(opts Options) (*Result, error) {
	cwd := opts.WorkingDir
	if cwd == "" {
		cwd = "."
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}

	files, discoveryErrs := NewDiscoverer(e.fs, e.resolver).Discover(opts.Patterns, cwd)

	result := &Result{DryRun: opts.DryRun}
	result.Errors = append(result.Errors, discoveryErrs...)

	batch := &datafile.Batch{}
	for _, file := range files {
		warnings := e.parseFile(file, opts.Strict, batch, result)
		result.Warnings = append(result.Warnings, warnings...)
	}

	Normalize(batch)
	result.Warnings = append(result.Warnings, CrossReferenceWarnings(batch)...)

	sortBatch(batch)
	result.Migrated = migratedResources(batch)
	result.Success = len(result.Errors) == 0

	content := generator.Generate(batch)

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputFile
	}
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}
	result.OutputPath = outputPath

	if opts.DryRun {
		result.OutputContent = content
		return result, nil
	}

	// A run that migrated nothing leaves no artifact behind.
	if len(result.Migrated) == 0 {
		debug.Debug("nothing migrated, skipping write", "path", outputPath)
		return result, nil
	}

	if err := e.write(outputPath, content, opts.Overwrite); err != nil {
		return result, err
	}
	debug.Debug("migration written", "path", outputPath, "resources", len(result.Migrated))
	return result, nil
}

// parseFile parses one discovered file into the batch, pushing its error
// into the result on failure. Failures are scoped to the file.
func (e *Engine) parseFile(file datafile.ResourceFile, strict bool, batch *datafile.Batch, result *Result) []string {
	switch file.Kind {
	case datafile.KindDatasource:
		model, warnings, err := datafile.ParseDatasource(file, strict)
		if err != nil {
			result.Errors = append(result.Errors, *err)
			return warnings
		}
		batch.Datasources = append(batch.Datasources, model)
		return warnings
	case datafile.KindPipe:
		model, warnings, err := datafile.ParsePipe(file, strict)
		if err != nil {
			result.Errors = append(result.Errors, *err)
			return warnings
		}
		batch.Pipes = append(batch.Pipes, model)
		return warnings
	case datafile.KindConnection:
		model, warnings, err := datafile.ParseConnection(file, strict)
		if err != nil {
			result.Errors = append(result.Errors, *err)
			return warnings
		}
		switch conn := model.(type) {
		case *datafile.KafkaConnectionModel:
			batch.KafkaConnections = append(batch.KafkaConnections, conn)
		case *datafile.S3ConnectionModel:
			batch.S3Connections = append(batch.S3Connections, conn)
		}
		return warnings
	}
	result.Errors = append(result.Errors, *datafile.NewDiscoveryError(file.FilePath, file.Kind, "unknown resource kind"))
	return nil
}

// sortBatch orders every group by name so generation is deterministic.
func sortBatch(batch *datafile.Batch) {
	sort.Slice(batch.KafkaConnections, func(i, j int) bool {
		return batch.KafkaConnections[i].Name < batch.KafkaConnections[j].Name
	})
	sort.Slice(batch.S3Connections, func(i, j int) bool {
		return batch.S3Connections[i].Name < batch.S3Connections[j].Name
	})
	sort.Slice(batch.Datasources, func(i, j int) bool {
		return batch.Datasources[i].Name < batch.Datasources[j].Name
	})
	sort.Slice(batch.Pipes, func(i, j int) bool {
		return batch.Pipes[i].Name < batch.Pipes[j].Name
	})
}

// migratedResources lists the batch's models in emission order:
// connections, then datasources, then pipes.
func migratedResources(batch *datafile.Batch) []datafile.Resource {
	connections := make([]datafile.Resource, 0, len(batch.KafkaConnections)+len(batch.S3Connections))
	for _, c := range batch.KafkaConnections {
		connections = append(connections, c)
	}
	for _, c := range batch.S3Connections {
		connections = append(connections, c)
	}
	sort.Slice(connections, func(i, j int) bool {
		return connections[i].ResourceName() < connections[j].ResourceName()
	})

	out := connections
	for _, d := range batch.Datasources {
		out = append(out, d)
	}
	for _, p := range batch.Pipes {
		out = append(out, p)
	}
	return out
}

// write persists the generated module, refusing to clobber an existing
// destination unless overwrite is set.
func (e *Engine) write(path, content string, overwrite bool) error {
	if !overwrite {
		exists, err := afero.Exists(e.fs, path)
		if err != nil {
			return fmt.Errorf("cannot check output destination: %w", err)
		}
		if exists {
			return fmt.Errorf("output file %s already exists (use --force to overwrite)", path)
		}
	}
	if err := afero.WriteFile(e.fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return nil
}
