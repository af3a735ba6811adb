// Package datafile parses Tinybird-style datafiles: line-oriented,
// directive-led definitions of datasources, pipes and connections.
package datafile

import (
	"path/filepath"
	"strings"
)

// Kind identifies the resource dialect of a datafile.
type Kind string

const (
	KindDatasource Kind = "datasource"
	KindPipe       Kind = "pipe"
	KindConnection Kind = "connection"

	// KindUnknown marks files whose extension could not be mapped.
	KindUnknown Kind = ""
)

// kindByExtension maps recognized file extensions to their kind.
var kindByExtension = map[string]Kind{
	".datasource": KindDatasource,
	".pipe":       KindPipe,
	".connection": KindConnection,
}

// KindForExtension returns the kind for a file extension (including the dot).
func KindForExtension(ext string) (Kind, bool) {
	kind, ok := kindByExtension[strings.ToLower(ext)]
	return kind, ok
}

// KindForPath returns the kind derived from a path's extension.
func KindForPath(path string) (Kind, bool) {
	return KindForExtension(filepath.Ext(path))
}

// Extensions returns the recognized datafile extensions.
func Extensions() []string {
	return []string{".connection", ".datasource", ".pipe"}
}

// ResourceFile is a raw discovered datafile. It is immutable once built.
type ResourceFile struct {
	Kind         Kind
	FilePath     string // relative to the working directory, POSIX-separated
	AbsolutePath string
	Name         string // file name with the extension stripped
	Content      string
}

// NewResourceFile builds a ResourceFile from its location and raw content.
func NewResourceFile(kind Kind, filePath, absolutePath, content string) ResourceFile {
	base := filepath.Base(absolutePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return ResourceFile{
		Kind:         kind,
		FilePath:     filepath.ToSlash(filePath),
		AbsolutePath: absolutePath,
		Name:         name,
		Content:      content,
	}
}

// Resource is the common surface of every parsed model.
type Resource interface {
	ResourceName() string
	ResourceKind() Kind
	SourcePath() string
}
