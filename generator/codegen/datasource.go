package codegen

import (
	"sort"
	"strings"

	"github.com/tinybird-community/tinybird-go/datafile"
)

// WriteDatasource renders one datasource as a declarative definition
// call bound to ident.
func WriteDatasource(w *Writer, ident string, m *datafile.DatasourceModel) {
	w.Open("var %s = schema.DefineDataSource(schema.DataSource{", ident)
	w.Linef("Name: %s,", GoString(m.Name))
	if m.Description != "" {
		w.Linef("Description: %s,", GoString(strings.TrimSpace(m.Description)))
	}

	w.Open("Columns: []schema.Column{")
	for _, col := range m.Columns {
		writeColumn(w, col)
	}
	w.Close("},")

	writeEngine(w, m.Engine)

	if m.Kafka != nil {
		w.Open("Kafka: &schema.KafkaSource{")
		w.Linef("Connection: %s,", GoString(m.Kafka.ConnectionName))
		w.Linef("Topic: %s,", GoString(m.Kafka.Topic))
		if m.Kafka.GroupID != "" {
			w.Linef("GroupID: %s,", GoString(m.Kafka.GroupID))
		}
		if m.Kafka.AutoOffsetReset != "" {
			w.Linef("AutoOffsetReset: %s,", GoString(m.Kafka.AutoOffsetReset))
		}
		if m.Kafka.StoreRawValue {
			w.Linef("StoreRawValue: true,")
		}
		w.Close("},")
	}

	if m.S3 != nil {
		w.Open("S3: &schema.S3Source{")
		w.Linef("Connection: %s,", GoString(m.S3.ConnectionName))
		w.Linef("BucketURI: %s,", GoString(m.S3.BucketURI))
		if m.S3.Schedule != "" {
			w.Linef("Schedule: %s,", GoString(m.S3.Schedule))
		}
		if m.S3.FromTimestamp != "" {
			w.Linef("FromTimestamp: %s,", GoString(m.S3.FromTimestamp))
		}
		w.Close("},")
	}

	if m.ForwardQuery != "" {
		w.Linef("ForwardQuery: %s,", GoString(strings.TrimSpace(m.ForwardQuery)))
	}
	writeTokens(w, m.Tokens)
	if len(m.SharedWith) > 0 {
		w.Linef("SharedWith: %s,", GoStringSlice(m.SharedWith))
	}
	w.Close("})")
}

func writeColumn(w *Writer, col datafile.Column) {
	parts := []string{"Name: " + GoString(col.Name), "Type: " + GoString(col.Type)}
	if col.JSONPath != "" {
		parts = append(parts, "JSONPath: "+GoString(col.JSONPath))
	}
	if col.DefaultExpression != "" {
		parts = append(parts, "Default: "+GoString(col.DefaultExpression))
	}
	if col.Codec != "" {
		parts = append(parts, "Codec: "+GoString(col.Codec))
	}
	w.Linef("{%s},", strings.Join(parts, ", "))
}

func writeEngine(w *Writer, engine datafile.Engine) {
	w.Open("Engine: schema.Engine{")
	w.Linef("Type: %s,", GoString(engine.Type))
	if len(engine.SortingKey) > 0 {
		w.Linef("SortingKey: %s,", GoStringSlice(engine.SortingKey))
	}
	if engine.PartitionKey != "" {
		w.Linef("PartitionKey: %s,", GoString(engine.PartitionKey))
	}
	if len(engine.PrimaryKey) > 0 {
		w.Linef("PrimaryKey: %s,", GoStringSlice(engine.PrimaryKey))
	}
	if engine.TTL != "" {
		w.Linef("TTL: %s,", GoString(engine.TTL))
	}
	if engine.Ver != "" {
		w.Linef("Ver: %s,", GoString(engine.Ver))
	}
	if engine.IsDeleted != "" {
		w.Linef("IsDeleted: %s,", GoString(engine.IsDeleted))
	}
	if engine.Sign != "" {
		w.Linef("Sign: %s,", GoString(engine.Sign))
	}
	if engine.Version != "" {
		w.Linef("Version: %s,", GoString(engine.Version))
	}
	if len(engine.SummingColumns) > 0 {
		w.Linef("SummingColumns: %s,", GoStringSlice(engine.SummingColumns))
	}
	if len(engine.Settings) > 0 {
		keys := make([]string, 0, len(engine.Settings))
		for k := range engine.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.Open("Settings: map[string]string{")
		for _, k := range keys {
			w.Linef("%s: %s,", GoString(k), GoString(engine.Settings[k]))
		}
		w.Close("},")
	}
	w.Close("},")
}

func writeTokens(w *Writer, tokens []datafile.Token) {
	if len(tokens) == 0 {
		return
	}
	w.Open("Tokens: []schema.Token{")
	for _, t := range tokens {
		w.Linef("{Name: %s, Scope: %s},", GoString(t.Name), GoString(t.Scope))
	}
	w.Close("},")
}
