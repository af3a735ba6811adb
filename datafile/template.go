package datafile

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Pipe SQL may embed typed template markers such as
// {{ String(category, 'all') }} or {{ Int32(limit, 100, required=True) }}.
// Each marker declares a query parameter of the pipe. Markers are the
// only templating construct the migrator interprets; anything else
// between double braces is ignored.

var markerPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

var templateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[(),=]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

type templateCall struct {
	Func string         `parser:"@Ident '('"`
	Args []*templateArg `parser:"(@@ (',' @@)*)? ')'"`
}

type templateArg struct {
	Name  string  `parser:"(@Ident '=')?"`
	Str   *string `parser:"( @String"`
	Num   *string `parser:"| @Number"`
	Ident *string `parser:"| @Ident )"`
}

var templateParser = participle.MustBuild[templateCall](
	participle.Lexer(templateLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// parameterTypes are the marker functions that declare typed parameters.
var parameterTypes = map[string]bool{
	"String":   true,
	"Boolean":  true,
	"Int8":     true,
	"Int16":    true,
	"Int32":    true,
	"Int64":    true,
	"Float32":  true,
	"Float64":  true,
	"Date":     true,
	"DateTime": true,
}

// ExtractParameters collects the typed parameters declared by template
// markers across a pipe's nodes, in order of first appearance. Duplicate
// names keep their first declaration.
func ExtractParameters(nodes []PipeNode) []Parameter {
	var params []Parameter
	seen := map[string]bool{}

	for _, node := range nodes {
		for _, match := range markerPattern.FindAllStringSubmatch(node.SQL, -1) {
			param, ok := parseMarker(match[1])
			if !ok || seen[param.Name] {
				continue
			}
			seen[param.Name] = true
			params = append(params, param)
		}
	}
	return params
}

// parseMarker parses the inside of one {{ ... }} span. Spans that are
// not well-formed typed markers are skipped, not errors.
func parseMarker(inner string) (Parameter, bool) {
	call, err := templateParser.ParseString("", strings.TrimSpace(inner))
	if err != nil {
		return Parameter{}, false
	}
	if !parameterTypes[call.Func] || len(call.Args) == 0 {
		return Parameter{}, false
	}

	var positional []*templateArg
	param := Parameter{Type: call.Func}
	for _, arg := range call.Args {
		if arg.Name == "" {
			positional = append(positional, arg)
			continue
		}
		if arg.Name == "required" && arg.Ident != nil {
			param.Required = strings.EqualFold(*arg.Ident, "true")
		}
	}

	if len(positional) == 0 || positional[0].Ident == nil {
		return Parameter{}, false
	}
	param.Name = *positional[0].Ident
	if len(positional) > 1 {
		param.DefaultValue = argText(positional[1])
	}
	return param, true
}

func argText(arg *templateArg) string {
	switch {
	case arg.Str != nil:
		s := *arg.Str
		if len(s) >= 2 {
			return s[1 : len(s)-1]
		}
		return s
	case arg.Num != nil:
		return *arg.Num
	case arg.Ident != nil:
		return *arg.Ident
	}
	return ""
}
