package migrate

import (
	"fmt"
	"strings"

	"github.com/tinybird-community/tinybird-go/datafile"
)

// InferOutputColumns derives the output column names of a query's
// top-level select list. For each selected expression it takes the
// explicit alias when present, else the bare column reference, else a
// positional placeholder. This is a text heuristic, not a SQL parser:
// `SELECT *`, subqueries and window clauses beyond simple shapes yield
// no inference (nil).
func InferOutputColumns(sql string) []string {
	list, ok := selectList(sql)
	if !ok {
		return nil
	}

	exprs := splitSelectExprs(list)
	if len(exprs) == 0 {
		return nil
	}

	columns := make([]string, 0, len(exprs))
	for i, expr := range exprs {
		expr = strings.TrimSpace(expr)
		if expr == "*" || strings.HasSuffix(expr, ".*") {
			return nil
		}
		columns = append(columns, columnName(expr, i))
	}
	return columns
}

// selectList extracts the text between the first top-level SELECT and
// its matching FROM (or the end of the statement).
func selectList(sql string) (string, bool) {
	start := keywordIndex(sql, "SELECT", 0)
	if start < 0 {
		return "", false
	}
	start += len("SELECT")

	end := keywordIndex(sql, "FROM", start)
	if end < 0 {
		end = len(sql)
	}

	list := strings.TrimSpace(sql[start:end])
	list = strings.TrimSpace(strings.TrimPrefix(list, "DISTINCT"))
	if list == "" {
		return "", false
	}
	return list, true
}

// keywordIndex finds a whole-word, case-insensitive SQL keyword at paren
// depth zero, starting at from.
func keywordIndex(sql, keyword string, from int) int {
	upper := strings.ToUpper(sql)
	depth := 0
	for i := from; i+len(keyword) <= len(upper); i++ {
		switch upper[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth != 0 || upper[i:i+len(keyword)] != keyword {
			continue
		}
		beforeOK := i == 0 || !isIdentByte(upper[i-1])
		after := i + len(keyword)
		afterOK := after == len(upper) || !isIdentByte(upper[after])
		if beforeOK && afterOK {
			return i
		}
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// splitSelectExprs splits a select list on top-level commas.
func splitSelectExprs(list string) []string {
	var exprs []string
	depth := 0
	start := 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				exprs = append(exprs, list[start:i])
				start = i + 1
			}
		}
	}
	exprs = append(exprs, list[start:])

	out := exprs[:0]
	for _, e := range exprs {
		if strings.TrimSpace(e) != "" {
			out = append(out, e)
		}
	}
	return out
}

var identPattern = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_."

// columnName names one selected expression: alias, bare reference, or
// positional placeholder (1-based).
func columnName(expr string, position int) string {
	if i := keywordIndex(expr, "AS", 0); i >= 0 {
		alias := strings.TrimSpace(expr[i+len("AS"):])
		alias = strings.Trim(alias, "`\"")
		if alias != "" {
			return alias
		}
	}
	if isBareReference(expr) {
		if dot := strings.LastIndex(expr, "."); dot >= 0 {
			return expr[dot+1:]
		}
		return expr
	}
	return fmt.Sprintf("column_%d", position+1)
}

func isBareReference(expr string) bool {
	if expr == "" || (expr[0] >= '0' && expr[0] <= '9') {
		return false
	}
	for i := 0; i < len(expr); i++ {
		if !strings.ContainsRune(identPattern, rune(expr[i])) {
			return false
		}
	}
	return true
}

// Normalize performs the light cross-file pass over a parsed batch:
// populating each pipe's inferred output columns from its final node.
// Connection references are deliberately carried through unresolved.
// Normalization never fails a file.
func Normalize(batch *datafile.Batch) {
	for _, pipe := range batch.Pipes {
		if node := pipe.OutputNode(); node != nil {
			pipe.InferredOutputColumns = InferOutputColumns(node.SQL)
		}
	}
}

// CrossReferenceWarnings reports datasource ingestion bindings that name
// a connection absent from the batch. Dangling references never reject a
// migration; they surface as warnings only.
func CrossReferenceWarnings(batch *datafile.Batch) []string {
	known := map[string]bool{}
	for _, c := range batch.KafkaConnections {
		known[c.Name] = true
	}
	for _, c := range batch.S3Connections {
		known[c.Name] = true
	}

	var warnings []string
	for _, ds := range batch.Datasources {
		if ds.Kafka != nil && ds.Kafka.ConnectionName != "" && !known[ds.Kafka.ConnectionName] {
			warnings = append(warnings, fmt.Sprintf("%s: kafka connection %q is not part of this migration", ds.FilePath, ds.Kafka.ConnectionName))
		}
		if ds.S3 != nil && ds.S3.ConnectionName != "" && !known[ds.S3.ConnectionName] {
			warnings = append(warnings, fmt.Sprintf("%s: s3 connection %q is not part of this migration", ds.FilePath, ds.S3.ConnectionName))
		}
	}
	return warnings
}
