package datafile

import (
	"regexp"
	"strings"
)

var nodeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParsePipe parses a .pipe file into its model. A DESCRIPTION before the
// first NODE describes the pipe, after it the current node. Typed
// template markers inside node SQL declare the pipe's parameters.
func ParsePipe(file ResourceFile, strict bool) (*PipeModel, []string, *MigrationError) {
	directives, err := ScanDirectives(file.Content)
	if err != nil {
		return nil, nil, NewParseError(file, "%v", err)
	}

	model := &PipeModel{
		Name:     file.Name,
		FilePath: file.FilePath,
		Type:     PipeTypeDefault,
	}
	var warnings []string
	var current *PipeNode

	for _, d := range directives {
		switch d.Keyword {
		case "NODE":
			name := unquote(d.Value)
			if !nodeNamePattern.MatchString(name) {
				return nil, nil, NewParseError(file, "line %d: invalid node name %q", d.Line, name)
			}
			model.Nodes = append(model.Nodes, PipeNode{Name: name})
			current = &model.Nodes[len(model.Nodes)-1]
		case "SQL":
			if !d.IsBlock {
				return nil, nil, NewParseError(file, "line %d: SQL requires a block value", d.Line)
			}
			if current == nil {
				return nil, nil, NewParseError(file, "line %d: SQL outside a NODE", d.Line)
			}
			if current.SQL != "" {
				return nil, nil, NewParseError(file, "line %d: node %q already has a SQL block", d.Line, current.Name)
			}
			current.SQL = d.Block
		case "DESCRIPTION":
			if current != nil {
				current.Description = directiveText(d)
			} else {
				model.Description = directiveText(d)
			}
		case "TYPE":
			pipeType, ok := parsePipeType(d.Value)
			if !ok {
				return nil, nil, NewParseError(file, "line %d: unknown pipe type %q", d.Line, d.Value)
			}
			model.Type = pipeType
		case "DATASOURCE":
			model.MaterializedDatasource = unquote(d.Value)
		case "TARGET_DATASOURCE":
			model.CopyTargetDatasource = unquote(d.Value)
		case "COPY_SCHEDULE":
			model.CopySchedule = unquote(d.Value)
		case "COPY_MODE":
			model.CopyMode = unquote(d.Value)
		case "CACHE_TTL":
			model.CacheTTL = unquote(d.Value)
		case "DEPLOYMENT_METHOD":
			model.DeploymentMethod = unquote(d.Value)
		case "TOKEN":
			token, tokErr := parseToken(d.Value, ScopeRead)
			if tokErr != "" {
				return nil, nil, NewParseError(file, "line %d: %s", d.Line, tokErr)
			}
			model.Tokens = append(model.Tokens, token)
		default:
			if strict {
				return nil, nil, NewParseError(file, "line %d: unknown directive %q in pipe file", d.Line, d.Keyword)
			}
			warnings = append(warnings, unknownDirectiveWarning(file, d))
		}
	}

	if len(model.Nodes) == 0 {
		return nil, nil, NewParseError(file, "missing required NODE directive")
	}
	for i := range model.Nodes {
		if strings.TrimSpace(model.Nodes[i].SQL) == "" {
			return nil, nil, NewParseError(file, "node %q has no SQL block", model.Nodes[i].Name)
		}
	}
	if model.Type == PipeTypeMaterialized && model.MaterializedDatasource == "" {
		return nil, nil, NewParseError(file, "materialized pipe requires a DATASOURCE directive")
	}
	if model.Type == PipeTypeCopy && model.CopyTargetDatasource == "" {
		return nil, nil, NewParseError(file, "copy pipe requires a TARGET_DATASOURCE directive")
	}
	if fwd := findForwardReference(model.Nodes); fwd != "" {
		return nil, nil, NewParseError(file, "%s", fwd)
	}

	model.Params = ExtractParameters(model.Nodes)

	return model, warnings, nil
}

func parsePipeType(value string) (PipeType, bool) {
	switch strings.ToLower(strings.TrimSpace(unquote(value))) {
	case "pipe", "default", "":
		return PipeTypeDefault, true
	case "endpoint":
		return PipeTypeEndpoint, true
	case "materialized":
		return PipeTypeMaterialized, true
	case "copy":
		return PipeTypeCopy, true
	}
	return PipeTypeDefault, false
}

// findForwardReference checks that nodes only draw from nodes declared
// before them. Node names count as references only in table positions
// (after FROM or JOIN), so a column or alias sharing a later node's name
// never fails the file; it returns a message describing the first
// violation.
func findForwardReference(nodes []PipeNode) string {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if referencesTable(nodes[i].SQL, nodes[j].Name) {
				return "node \"" + nodes[i].Name + "\" references node \"" + nodes[j].Name + "\" before its declaration"
			}
		}
	}
	return ""
}

func referencesTable(sql, name string) bool {
	idx := 0
	for {
		i := strings.Index(sql[idx:], name)
		if i < 0 {
			return false
		}
		i += idx
		idx = i + len(name)
		beforeOK := i == 0 || !isIdentChar(sql[i-1])
		after := i + len(name)
		afterOK := after == len(sql) || !isIdentChar(sql[after])
		if beforeOK && afterOK && followsTableKeyword(sql, i) {
			return true
		}
	}
}

// followsTableKeyword reports whether the token just before offset i is
// FROM or JOIN.
func followsTableKeyword(sql string, i int) bool {
	j := i
	for j > 0 && (sql[j-1] == ' ' || sql[j-1] == '\t' || sql[j-1] == '\n' || sql[j-1] == '(') {
		j--
	}
	start := j
	for start > 0 && isIdentChar(sql[start-1]) {
		start--
	}
	word := strings.ToUpper(sql[start:j])
	return word == "FROM" || word == "JOIN"
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
