package codegen

import (
	"strings"

	"github.com/tinybird-community/tinybird-go/datafile"
)

// pipeTypeConstants maps pipe types to schema package constants.
var pipeTypeConstants = map[datafile.PipeType]string{
	datafile.PipeTypeDefault:      "schema.PipeTypeDefault",
	datafile.PipeTypeEndpoint:     "schema.PipeTypeEndpoint",
	datafile.PipeTypeMaterialized: "schema.PipeTypeMaterialized",
	datafile.PipeTypeCopy:         "schema.PipeTypeCopy",
}

// WritePipe renders one pipe as a definition call bound to ident: nodes
// in declared order, parameters, and the behavior fields of its type.
func WritePipe(w *Writer, ident string, m *datafile.PipeModel) {
	w.Open("var %s = schema.DefinePipe(schema.Pipe{", ident)
	w.Linef("Name: %s,", GoString(m.Name))
	if m.Description != "" {
		w.Linef("Description: %s,", GoString(strings.TrimSpace(m.Description)))
	}
	if m.Type != datafile.PipeTypeDefault {
		w.Linef("Type: %s,", pipeTypeConstants[m.Type])
	}

	w.Open("Nodes: []schema.PipeNode{")
	for _, node := range m.Nodes {
		w.Open("{")
		w.Linef("Name: %s,", GoString(node.Name))
		if node.Description != "" {
			w.Linef("Description: %s,", GoString(strings.TrimSpace(node.Description)))
		}
		w.Linef("SQL: %s,", GoString(node.SQL))
		w.Close("},")
	}
	w.Close("},")

	switch m.Type {
	case datafile.PipeTypeMaterialized:
		w.Linef("Datasource: %s,", GoString(m.MaterializedDatasource))
	case datafile.PipeTypeCopy:
		w.Linef("TargetDatasource: %s,", GoString(m.CopyTargetDatasource))
		if m.CopySchedule != "" {
			w.Linef("CopySchedule: %s,", GoString(m.CopySchedule))
		}
		if m.CopyMode != "" {
			w.Linef("CopyMode: %s,", GoString(m.CopyMode))
		}
	}

	if m.CacheTTL != "" {
		w.Linef("CacheTTL: %s,", GoString(m.CacheTTL))
	}
	if m.DeploymentMethod != "" {
		w.Linef("DeploymentMethod: %s,", GoString(m.DeploymentMethod))
	}

	if len(m.Params) > 0 {
		w.Open("Parameters: []schema.Parameter{")
		for _, p := range m.Params {
			parts := []string{"Name: " + GoString(p.Name), "Type: " + GoString(p.Type)}
			if p.Required {
				parts = append(parts, "Required: true")
			}
			if p.DefaultValue != "" {
				parts = append(parts, "Default: "+GoString(p.DefaultValue))
			}
			w.Linef("{%s},", strings.Join(parts, ", "))
		}
		w.Close("},")
	}

	// Output schema is emitted when inference succeeded; otherwise the
	// runtime derives it.
	if len(m.InferredOutputColumns) > 0 {
		w.Linef("OutputColumns: %s,", GoStringSlice(m.InferredOutputColumns))
	}
	writeTokens(w, m.Tokens)
	w.Close("})")
}
