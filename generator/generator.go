// Package generator renders a parsed datafile batch into one generated
// Go source module of declarative schema definitions.
package generator

import (
	"fmt"

	"github.com/tinybird-community/tinybird-go/datafile"
	"github.com/tinybird-community/tinybird-go/generator/codegen"
	"github.com/tinybird-community/tinybird-go/internal/debug"
)

const (
	generatedHeader  = "// Code generated by tinybird-go migrate. DO NOT EDIT."
	generatedPackage = "tinybird"
	schemaImportPath = "github.com/tinybird-community/tinybird-go/schema"
)

// Generate renders the batch as one Go source module. It is a pure
// function of the model list: connections first, then datasources, then
// pipes, with no validation of cross-references. Callers are expected to
// pass groups already sorted by name; Generate preserves their order.
func Generate(batch *datafile.Batch) string {
	w := codegen.NewWriter()
	idents := newIdentifierSet()

	w.Linef(generatedHeader)
	w.Blank()
	w.Linef("package %s", generatedPackage)

	// An empty batch renders a bare package clause; importing the schema
	// package with no definitions would not compile.
	if !batch.Empty() {
		w.Blank()
		w.Linef("import (")
		w.Linef("\t%q", schemaImportPath)
		w.Linef(")")
	}

	for _, conn := range batch.KafkaConnections {
		w.Blank()
		codegen.WriteKafkaConnection(w, idents.claim(conn.Name, "Connection"), conn)
	}
	for _, conn := range batch.S3Connections {
		w.Blank()
		codegen.WriteS3Connection(w, idents.claim(conn.Name, "Connection"), conn)
	}
	for _, ds := range batch.Datasources {
		w.Blank()
		codegen.WriteDatasource(w, idents.claim(ds.Name, "DataSource"), ds)
	}
	for _, pipe := range batch.Pipes {
		w.Blank()
		codegen.WritePipe(w, idents.claim(pipe.Name, "Pipe"), pipe)
	}

	debug.Debug("module rendered",
		"connections", len(batch.KafkaConnections)+len(batch.S3Connections),
		"datasources", len(batch.Datasources),
		"pipes", len(batch.Pipes))
	return w.String()
}

// identifierSet hands out unique exported identifiers. Duplicate resource
// names get a numeric suffix instead of silently overwriting an earlier
// definition.
type identifierSet struct {
	used map[string]bool
}

func newIdentifierSet() *identifierSet {
	return &identifierSet{used: map[string]bool{}}
}

func (s *identifierSet) claim(name, suffix string) string {
	base := codegen.Identifier(name) + suffix
	ident := base
	for n := 2; s.used[ident]; n++ {
		ident = fmt.Sprintf("%s%d", base, n)
	}
	s.used[ident] = true
	return ident
}
