package datafile

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// PrettyPrintError writes a migration error in human-friendly colored
// form: a red title, the bold message, and an arrow to the offending
// file. Colors are suppressed when NO_COLOR is set.
func PrettyPrintError(w io.Writer, e MigrationError) {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	title := color.New(color.FgRed, color.Bold)
	desc := color.New(color.Bold)

	title.Fprint(w, "error")
	if e.ResourceKind != KindUnknown {
		title.Fprintf(w, " (%s)", e.ResourceKind)
	}
	desc.Fprintf(w, ": %s\n", e.Message)
	writeFileArrow(w, e.FilePath)
}

// PrettyPrintWarning writes a warning in the same form with a yellow
// title.
func PrettyPrintWarning(w io.Writer, message string) {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	title := color.New(color.FgYellow, color.Bold)
	desc := color.New(color.Bold)

	title.Fprint(w, "warning")
	desc.Fprintf(w, ": %s\n", message)
}

func writeFileArrow(w io.Writer, path string) {
	if path == "" {
		return
	}
	arrow := color.New(color.FgCyan, color.Bold)
	filePath := color.New(color.Underline)
	arrow.Fprint(w, "  --> ")
	filePath.Fprintf(w, "%s\n", path)
}

// PrettyPrint writes every collected error in pretty form.
func (l *ErrorList) PrettyPrint(w io.Writer) {
	for _, e := range l.errors {
		PrettyPrintError(w, e)
	}
}
