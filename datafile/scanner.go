package datafile

import (
	"fmt"
	"strings"
)

// Directive is one keyword-led entry in a datafile. The value is either
// inline (the rest of the line, trimmed) or a multi-line block introduced
// by a bare ">" marker.
type Directive struct {
	Keyword string
	Value   string // inline value, raw (quotes are a per-grammar concern)
	Block   string // block content with the common indentation stripped
	IsBlock bool
	Line    int // 1-based line of the keyword
}

// ScanDirectives tokenizes datafile content into an ordered directive
// sequence. Blank lines and column-zero "#" comments between directives
// are skipped. A block runs until a blank line or a line returning to
// column zero; its internal formatting is preserved verbatim minus the
// shared indentation.
func ScanDirectives(content string) ([]Directive, error) {
	lines := strings.Split(content, "\n")
	directives := make([]Directive, 0, len(lines)/2)

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			return nil, fmt.Errorf("line %d: unexpected indentation outside a block", i+1)
		}

		keyword := scanKeyword(line)
		if keyword == "" {
			return nil, fmt.Errorf("line %d: expected a directive keyword, found %q", i+1, firstWord(line))
		}

		rest := strings.TrimSpace(line[len(keyword):])
		if rest == ">" {
			block, next := scanBlock(lines, i+1)
			directives = append(directives, Directive{
				Keyword: keyword,
				Block:   block,
				IsBlock: true,
				Line:    i + 1,
			})
			i = next - 1
			continue
		}

		directives = append(directives, Directive{
			Keyword: keyword,
			Value:   rest,
			Line:    i + 1,
		})
	}

	return directives, nil
}

// scanKeyword returns the leading uppercase keyword of a line, or "" if
// the line does not start with one.
func scanKeyword(line string) string {
	if line == "" || line[0] < 'A' || line[0] > 'Z' {
		return ""
	}
	end := 0
	for end < len(line) {
		c := line[end]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			end++
			continue
		}
		break
	}
	if end < len(line) && line[end] != ' ' && line[end] != '\t' {
		return ""
	}
	return line[:end]
}

func firstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// scanBlock collects indented lines starting at index start and returns
// the block content plus the index of the first line after the block.
func scanBlock(lines []string, start int) (string, int) {
	var collected []string
	i := start
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		if line[0] != ' ' && line[0] != '\t' {
			break
		}
		collected = append(collected, line)
	}
	return stripCommonIndent(collected), i
}

// stripCommonIndent removes the smallest indentation shared by every
// block line, so SQL and column lists come out flush left while their
// relative indentation survives.
func stripCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	min := -1
	for _, line := range lines {
		indent := 0
		for indent < len(line) && (line[indent] == ' ' || line[indent] == '\t') {
			indent++
		}
		if min == -1 || indent < min {
			min = indent
		}
	}
	stripped := make([]string, len(lines))
	for i, line := range lines {
		stripped[i] = line[min:]
	}
	return strings.Join(stripped, "\n")
}

// unquote strips a matching pair of double quotes and resolves escaped
// quotes. Unquoted input is returned as-is.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		return inner
	}
	return s
}

// splitCSV splits a comma-separated inline value into trimmed entries.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// parentheses or backticks.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	inBacktick := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '`':
			inBacktick = !inBacktick
		case '(':
			if !inBacktick {
				depth++
			}
		case ')':
			if !inBacktick && depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 && !inBacktick {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
