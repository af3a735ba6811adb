// Package codegen renders parsed datafile models as Go source.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// Writer builds generated source line by line with indentation tracking.
type Writer struct {
	sb     strings.Builder
	indent int
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Linef writes one formatted line at the current indentation.
func (w *Writer) Linef(format string, args ...interface{}) {
	if format != "" {
		w.sb.WriteString(strings.Repeat("\t", w.indent))
		fmt.Fprintf(&w.sb, format, args...)
	}
	w.sb.WriteByte('\n')
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.sb.WriteByte('\n')
}

// Open writes a line and increases the indentation, for block openers.
func (w *Writer) Open(format string, args ...interface{}) {
	w.Linef(format, args...)
	w.indent++
}

// Close decreases the indentation and writes a closing line.
func (w *Writer) Close(format string, args ...interface{}) {
	if w.indent > 0 {
		w.indent--
	}
	w.Linef(format, args...)
}

// String returns the accumulated source.
func (w *Writer) String() string {
	return w.sb.String()
}

// Identifier converts a resource name to an exported Go identifier:
// snake and kebab segments become PascalCase, invalid characters are
// dropped, and a leading digit is prefixed.
func Identifier(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			upperNext = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if upperNext {
				b.WriteRune(r &^ 0x20)
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('N')
			}
			b.WriteRune(r)
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "Resource"
	}
	return b.String()
}

// GoString renders a string literal. Multi-line values without backticks
// render as raw string literals so SQL stays readable; everything else
// is quoted.
func GoString(s string) string {
	if strings.Contains(s, "\n") && !strings.Contains(s, "`") && !strings.Contains(s, "\r") {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

// GoStringSlice renders a []string literal on one line.
func GoStringSlice(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
