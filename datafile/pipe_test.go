package datafile

import (
	"reflect"
	"strings"
	"testing"
)

func pipeFile(name, content string) ResourceFile {
	return NewResourceFile(KindPipe, name+".pipe", "/ws/"+name+".pipe", content)
}

func TestParsePipeMultiNode(t *testing.T) {
	content := `DESCRIPTION "Hourly stats"

NODE filtered
DESCRIPTION "Drop bot traffic"
SQL >
    SELECT * FROM events WHERE agent != 'bot'

NODE hourly
SQL >
    SELECT toStartOfHour(ts) AS hour, count() AS total
    FROM filtered
    GROUP BY hour

TYPE endpoint
CACHE_TTL "60"
TOKEN "stats_read" READ
`

	model, warnings, err := ParsePipe(pipeFile("stats", content), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if model.Description != "Hourly stats" {
		t.Errorf("Description = %q", model.Description)
	}
	if model.Type != PipeTypeEndpoint {
		t.Errorf("Type = %q", model.Type)
	}
	if model.CacheTTL != "60" {
		t.Errorf("CacheTTL = %q", model.CacheTTL)
	}
	if len(model.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(model.Nodes))
	}
	if model.Nodes[0].Name != "filtered" || model.Nodes[0].Description != "Drop bot traffic" {
		t.Errorf("node 0 = %+v", model.Nodes[0])
	}
	if model.Nodes[1].Name != "hourly" {
		t.Errorf("node 1 = %+v", model.Nodes[1])
	}
	if out := model.OutputNode(); out == nil || out.Name != "hourly" {
		t.Errorf("OutputNode = %+v", out)
	}
	if len(model.Tokens) != 1 || model.Tokens[0].Scope != ScopeRead {
		t.Errorf("Tokens = %+v", model.Tokens)
	}
}

func TestParsePipeTemplateParameters(t *testing.T) {
	content := `NODE endpoint
SQL >
    SELECT * FROM events
    WHERE category = {{ String(category, 'all') }}
    LIMIT {{ Int32(page_size, 100, required=True) }}
`
	model, _, err := ParsePipe(pipeFile("filtered", content), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Parameter{
		{Name: "category", Type: "String", DefaultValue: "all"},
		{Name: "page_size", Type: "Int32", DefaultValue: "100", Required: true},
	}
	if !reflect.DeepEqual(model.Params, want) {
		t.Errorf("Params = %+v, want %+v", model.Params, want)
	}
}

func TestParsePipeMaterializedAndCopy(t *testing.T) {
	materialized := `NODE mat
SQL >
    SELECT id, count() AS n FROM events GROUP BY id

TYPE materialized
DATASOURCE "event_counts"
`
	model, _, err := ParsePipe(pipeFile("mat", materialized), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.Type != PipeTypeMaterialized || model.MaterializedDatasource != "event_counts" {
		t.Errorf("model = %+v", model)
	}

	copyPipe := `NODE export
SQL >
    SELECT * FROM events

TYPE copy
TARGET_DATASOURCE "events_copy"
COPY_SCHEDULE "0 * * * *"
COPY_MODE "append"
`
	model, _, err = ParsePipe(pipeFile("export", copyPipe), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.CopyTargetDatasource != "events_copy" || model.CopySchedule != "0 * * * *" || model.CopyMode != "append" {
		t.Errorf("model = %+v", model)
	}
}

func TestParsePipeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "no nodes",
			content: "DESCRIPTION \"empty\"\n",
			wantMsg: "missing required NODE",
		},
		{
			name:    "node without sql",
			content: "NODE a\nSQL >\n    SELECT 1\n\nNODE b\n",
			wantMsg: `node "b" has no SQL block`,
		},
		{
			name:    "sql outside node",
			content: "SQL >\n    SELECT 1\n",
			wantMsg: "SQL outside a NODE",
		},
		{
			name:    "duplicate sql",
			content: "NODE a\nSQL >\n    SELECT 1\nSQL >\n    SELECT 2\n",
			wantMsg: "already has a SQL block",
		},
		{
			name:    "invalid node name",
			content: "NODE 9lives\nSQL >\n    SELECT 1\n",
			wantMsg: "invalid node name",
		},
		{
			name:    "unknown pipe type",
			content: "NODE a\nSQL >\n    SELECT 1\n\nTYPE streaming\n",
			wantMsg: "unknown pipe type",
		},
		{
			name:    "materialized without datasource",
			content: "NODE a\nSQL >\n    SELECT 1\n\nTYPE materialized\n",
			wantMsg: "requires a DATASOURCE",
		},
		{
			name:    "copy without target",
			content: "NODE a\nSQL >\n    SELECT 1\n\nTYPE copy\n",
			wantMsg: "requires a TARGET_DATASOURCE",
		},
		{
			name:    "forward reference",
			content: "NODE first\nSQL >\n    SELECT * FROM second\n\nNODE second\nSQL >\n    SELECT 1\n",
			wantMsg: "before its declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, _, err := ParsePipe(pipeFile("bad", tt.content), true)
			if err == nil {
				t.Fatalf("expected error, got %+v", model)
			}
			if !strings.Contains(err.Message, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestParsePipeAliasSharingLaterNodeName(t *testing.T) {
	content := `NODE prep
SQL >
    SELECT count() AS hits FROM events

NODE hits
SQL >
    SELECT * FROM prep
`
	model, _, err := ParsePipe(pipeFile("traffic", content), true)
	if err != nil {
		t.Fatalf("valid pipe rejected: %v", err)
	}
	if len(model.Nodes) != 2 || model.Nodes[1].Name != "hits" {
		t.Errorf("nodes = %+v", model.Nodes)
	}
}

func TestFindForwardReference(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []PipeNode
		wantRef bool
	}{
		{
			name: "from clause",
			nodes: []PipeNode{
				{Name: "first", SQL: "SELECT * FROM second"},
				{Name: "second", SQL: "SELECT 1"},
			},
			wantRef: true,
		},
		{
			name: "join clause",
			nodes: []PipeNode{
				{Name: "first", SQL: "SELECT * FROM events JOIN second ON events.id = second.id"},
				{Name: "second", SQL: "SELECT 1"},
			},
			wantRef: true,
		},
		{
			name: "qualified table name",
			nodes: []PipeNode{
				{Name: "first", SQL: "SELECT * FROM db.second"},
				{Name: "second", SQL: "SELECT * FROM first"},
			},
			wantRef: false,
		},
		{
			name: "alias sharing a later node name",
			nodes: []PipeNode{
				{Name: "first", SQL: "SELECT count() AS second FROM events"},
				{Name: "second", SQL: "SELECT * FROM first"},
			},
			wantRef: false,
		},
		{
			name: "column reference sharing a later node name",
			nodes: []PipeNode{
				{Name: "first", SQL: "SELECT second FROM events WHERE second > 0"},
				{Name: "second", SQL: "SELECT * FROM first"},
			},
			wantRef: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := findForwardReference(tt.nodes)
			if tt.wantRef && msg == "" {
				t.Error("forward reference not detected")
			}
			if !tt.wantRef && msg != "" {
				t.Errorf("unexpected forward reference: %s", msg)
			}
		})
	}
}
