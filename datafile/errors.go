package datafile

import "fmt"

// MigrationError describes a single file that could not be migrated.
// Errors are informational: they are collected and reported, they never
// abort the rest of the batch.
type MigrationError struct {
	FilePath     string
	ResourceName string
	ResourceKind Kind
	Message      string
}

func (e MigrationError) Error() string {
	if e.FilePath == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// NewParseError builds an error for a file that failed to parse.
func NewParseError(file ResourceFile, format string, args ...interface{}) *MigrationError {
	return &MigrationError{
		FilePath:     file.FilePath,
		ResourceName: file.Name,
		ResourceKind: file.Kind,
		Message:      fmt.Sprintf(format, args...),
	}
}

// NewDiscoveryError builds an error for a pattern or path that could not
// be resolved to datafiles.
func NewDiscoveryError(path string, kind Kind, format string, args ...interface{}) *MigrationError {
	return &MigrationError{
		FilePath:     path,
		ResourceKind: kind,
		Message:      fmt.Sprintf(format, args...),
	}
}

// ErrorList accumulates migration errors across a batch.
// It is used to not error out early and instead show every failure at once.
type ErrorList struct {
	errors []MigrationError
}

// Push adds an error to the list. Nil errors are ignored.
func (l *ErrorList) Push(err *MigrationError) {
	if err != nil {
		l.errors = append(l.errors, *err)
	}
}

// HasErrors reports whether at least one error was collected.
func (l *ErrorList) HasErrors() bool {
	return len(l.errors) > 0
}

// Errors returns the collected errors in push order.
func (l *ErrorList) Errors() []MigrationError {
	return l.errors
}
