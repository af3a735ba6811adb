package datafile

import (
	"strings"
)

// ParseDatasource parses a .datasource file into its model. Parsing is
// all-or-nothing: on failure the file contributes no model and exactly
// one error. In non-strict mode unrecognized directives are skipped and
// reported as warnings instead.
func ParseDatasource(file ResourceFile, strict bool) (*DatasourceModel, []string, *MigrationError) {
	directives, err := ScanDirectives(file.Content)
	if err != nil {
		return nil, nil, NewParseError(file, "%v", err)
	}

	model := &DatasourceModel{
		Name:     file.Name,
		FilePath: file.FilePath,
		Engine:   Engine{Settings: map[string]string{}},
	}
	var warnings []string
	sawSchema := false

	for _, d := range directives {
		switch d.Keyword {
		case "DESCRIPTION":
			model.Description = directiveText(d)
		case "SCHEMA":
			if !d.IsBlock {
				return nil, nil, NewParseError(file, "line %d: SCHEMA requires a block value", d.Line)
			}
			columns, colErr := parseColumns(d.Block)
			if colErr != "" {
				return nil, nil, NewParseError(file, "line %d: %s", d.Line, colErr)
			}
			model.Columns = columns
			sawSchema = true
		case "ENGINE":
			model.Engine.Type = unquote(d.Value)
		case "ENGINE_SORTING_KEY":
			model.Engine.SortingKey = splitCSV(unquote(d.Value))
		case "ENGINE_PARTITION_KEY":
			model.Engine.PartitionKey = unquote(d.Value)
		case "ENGINE_PRIMARY_KEY":
			model.Engine.PrimaryKey = splitCSV(unquote(d.Value))
		case "ENGINE_TTL":
			model.Engine.TTL = unquote(d.Value)
		case "ENGINE_VER":
			model.Engine.Ver = unquote(d.Value)
		case "ENGINE_IS_DELETED":
			model.Engine.IsDeleted = unquote(d.Value)
		case "ENGINE_SIGN":
			model.Engine.Sign = unquote(d.Value)
		case "ENGINE_VERSION":
			model.Engine.Version = unquote(d.Value)
		case "ENGINE_SUMMING_COLUMNS":
			model.Engine.SummingColumns = splitCSV(unquote(d.Value))
		case "KAFKA_CONNECTION_NAME":
			ensureKafka(model).ConnectionName = unquote(d.Value)
		case "KAFKA_TOPIC":
			ensureKafka(model).Topic = unquote(d.Value)
		case "KAFKA_GROUP_ID":
			ensureKafka(model).GroupID = unquote(d.Value)
		case "KAFKA_AUTO_OFFSET_RESET":
			ensureKafka(model).AutoOffsetReset = unquote(d.Value)
		case "KAFKA_STORE_RAW_VALUE":
			ensureKafka(model).StoreRawValue = isTruthy(d.Value)
		case "IMPORT_CONNECTION_NAME":
			ensureS3(model).ConnectionName = unquote(d.Value)
		case "IMPORT_BUCKET_URI":
			ensureS3(model).BucketURI = unquote(d.Value)
		case "IMPORT_SCHEDULE":
			ensureS3(model).Schedule = unquote(d.Value)
		case "IMPORT_FROM_TIMESTAMP":
			ensureS3(model).FromTimestamp = unquote(d.Value)
		case "FORWARD_QUERY":
			model.ForwardQuery = directiveText(d)
		case "SHARED_WITH":
			model.SharedWith = append(model.SharedWith, directiveList(d)...)
		case "TOKEN":
			token, tokErr := parseToken(d.Value, ScopeRead, ScopeAppend)
			if tokErr != "" {
				return nil, nil, NewParseError(file, "line %d: %s", d.Line, tokErr)
			}
			model.Tokens = append(model.Tokens, token)
		default:
			// Remaining ENGINE_* directives land in the free-form
			// settings map rather than failing the file.
			if suffix, ok := strings.CutPrefix(d.Keyword, "ENGINE_"); ok && suffix != "" {
				model.Engine.Settings[strings.ToLower(suffix)] = unquote(d.Value)
				continue
			}
			if strict {
				return nil, nil, NewParseError(file, "line %d: unknown directive %q in datasource file", d.Line, d.Keyword)
			}
			warnings = append(warnings, unknownDirectiveWarning(file, d))
		}
	}

	if !sawSchema || len(model.Columns) == 0 {
		return nil, nil, NewParseError(file, "missing required SCHEMA directive")
	}
	if model.Engine.Type == "" {
		return nil, nil, NewParseError(file, "missing required ENGINE directive")
	}

	return model, warnings, nil
}

func ensureKafka(m *DatasourceModel) *KafkaBinding {
	if m.Kafka == nil {
		m.Kafka = &KafkaBinding{}
	}
	return m.Kafka
}

func ensureS3(m *DatasourceModel) *S3Binding {
	if m.S3 == nil {
		m.S3 = &S3Binding{}
	}
	return m.S3
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// directiveText returns a directive's textual payload: the unquoted
// inline value, or the block body for the block form.
func directiveText(d Directive) string {
	if d.IsBlock {
		return d.Block
	}
	return unquote(d.Value)
}

// directiveList returns a directive's payload as a list: comma-separated
// inline, or one entry per block line.
func directiveList(d Directive) []string {
	if !d.IsBlock {
		return splitCSV(d.Value)
	}
	var out []string
	for _, line := range strings.Split(d.Block, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, strings.TrimSuffix(t, ","))
		}
	}
	return out
}

// parseToken parses a `TOKEN "name" SCOPE` value. The name may be quoted
// or bare; the scope must be one of allowed.
func parseToken(value string, allowed ...string) (Token, string) {
	name, rest := cutQuotedToken(value)
	scope := strings.ToUpper(strings.TrimSpace(rest))
	if name == "" || scope == "" {
		return Token{}, "malformed TOKEN directive, expected `TOKEN \"name\" SCOPE`"
	}
	for _, s := range allowed {
		if scope == s {
			return Token{Name: name, Scope: scope}, ""
		}
	}
	return Token{}, "invalid token scope " + scope
}

// cutQuotedToken splits off the first token of a value, honoring double
// quotes, and returns it with the remainder.
func cutQuotedToken(value string) (string, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ""
	}
	if value[0] == '"' {
		for i := 1; i < len(value); i++ {
			if value[i] == '"' && value[i-1] != '\\' {
				return unquote(value[:i+1]), value[i+1:]
			}
		}
		return "", ""
	}
	if i := strings.IndexAny(value, " \t"); i >= 0 {
		return value[:i], value[i:]
	}
	return value, ""
}

func unknownDirectiveWarning(file ResourceFile, d Directive) string {
	return file.FilePath + ": skipped unknown directive " + d.Keyword
}

// parseColumns parses a SCHEMA block: entries separated by top-level
// commas, each `name type [`+"`json:$.path`"+`] [DEFAULT expr] [CODEC(...)]`.
// Returns a non-empty message on malformed entries.
func parseColumns(block string) ([]Column, string) {
	var columns []Column
	for _, entry := range splitTopLevel(block, ',') {
		entry = strings.TrimSpace(strings.ReplaceAll(entry, "\n", " "))
		if entry == "" {
			continue
		}
		col, errMsg := parseColumnEntry(entry)
		if errMsg != "" {
			return nil, errMsg
		}
		columns = append(columns, col)
	}
	return columns, ""
}

func parseColumnEntry(entry string) (Column, string) {
	var col Column

	name, rest := cutQuotedToken(entry)
	if name == "" {
		return col, "malformed column entry: " + entry
	}
	col.Name = name
	rest = strings.TrimSpace(rest)

	// The type runs until the first trailing marker: a json path in
	// backticks, a DEFAULT expression, or a CODEC clause.
	typeEnd := len(rest)
	if i := strings.Index(rest, "`"); i >= 0 && i < typeEnd {
		typeEnd = i
	}
	if i := indexWord(rest, "DEFAULT"); i >= 0 && i < typeEnd {
		typeEnd = i
	}
	if i := indexWord(rest, "CODEC"); i >= 0 && i < typeEnd {
		typeEnd = i
	}
	col.Type = strings.TrimSpace(rest[:typeEnd])
	if col.Type == "" {
		return col, "column " + name + " is missing a type"
	}
	rest = rest[typeEnd:]

	if i := strings.Index(rest, "`"); i >= 0 {
		end := strings.Index(rest[i+1:], "`")
		if end < 0 {
			return col, "column " + name + " has an unterminated json path"
		}
		path := rest[i+1 : i+1+end]
		col.JSONPath = strings.TrimPrefix(path, "json:")
		rest = rest[:i] + rest[i+1+end+1:]
	}

	if i := indexWord(rest, "DEFAULT"); i >= 0 {
		expr := rest[i+len("DEFAULT"):]
		if j := indexWord(expr, "CODEC"); j >= 0 {
			col.DefaultExpression = strings.TrimSpace(expr[:j])
			rest = expr[j:]
		} else {
			col.DefaultExpression = strings.TrimSpace(expr)
			rest = ""
		}
		if col.DefaultExpression == "" {
			return col, "column " + name + " has an empty DEFAULT expression"
		}
	}

	if i := indexWord(rest, "CODEC"); i >= 0 {
		clause := strings.TrimSpace(rest[i+len("CODEC"):])
		if !strings.HasPrefix(clause, "(") || !strings.HasSuffix(clause, ")") {
			return col, "column " + name + " has a malformed CODEC clause"
		}
		col.Codec = clause[1 : len(clause)-1]
	}

	return col, ""
}

// indexWord finds a whole-word occurrence of word in s at paren depth
// zero, or -1.
func indexWord(s, word string) int {
	depth := 0
	for i := 0; i+len(word) <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth != 0 || s[i:i+len(word)] != word {
			continue
		}
		beforeOK := i == 0 || isWordBoundary(s[i-1])
		after := i + len(word)
		afterOK := after == len(s) || isWordBoundary(s[after]) || s[after] == '('
		if beforeOK && afterOK {
			return i
		}
	}
	return -1
}

func isWordBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == ','
}
