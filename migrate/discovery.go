// Package migrate implements the datafile migration engine: discovery,
// parsing, normalization and generation, with best-effort batch
// semantics.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/tinybird-community/tinybird-go/datafile"
	"github.com/tinybird-community/tinybird-go/internal/debug"
)

// skipDirs are directory names never descended into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
}

// Resolved is one file produced by include-pattern expansion.
type Resolved struct {
	AbsolutePath string
	SourcePath   string // the pattern that produced this file
}

// IncludeResolver expands glob-like patterns that do not name an
// existing path. Discovery is its only consumer.
type IncludeResolver interface {
	Resolve(pattern, root string) ([]Resolved, error)
}

// GlobResolver resolves include patterns against an afero filesystem.
// It supports the usual Match syntax plus "**" for any directory depth.
type GlobResolver struct {
	Fs afero.Fs
}

// Resolve expands pattern relative to root.
func (r *GlobResolver) Resolve(pattern, root string) ([]Resolved, error) {
	abs := pattern
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, pattern)
	}

	if !strings.Contains(abs, "**") {
		matches, err := afero.Glob(r.Fs, abs)
		if err != nil {
			return nil, fmt.Errorf("malformed pattern %q: %w", pattern, err)
		}
		return r.collect(matches, pattern)
	}

	// "**" splits the pattern into a fixed base and a tail matched
	// against every file below it.
	base, tail, _ := strings.Cut(filepath.ToSlash(abs), "**")
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		base = root
	}
	tail = strings.TrimPrefix(tail, "/")
	if _, err := filepath.Match(tail, ""); err != nil {
		return nil, fmt.Errorf("malformed pattern %q: %w", pattern, err)
	}

	var matches []string
	walkErr := afero.Walk(r.Fs, filepath.FromSlash(base), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(filepath.FromSlash(base), path)
		if relErr != nil {
			return relErr
		}
		if matchSuffix(tail, filepath.ToSlash(rel)) {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("cannot expand pattern %q: %w", pattern, walkErr)
	}
	return r.collect(matches, pattern)
}

func (r *GlobResolver) collect(matches []string, pattern string) ([]Resolved, error) {
	var out []Resolved
	for _, m := range matches {
		info, err := r.Fs.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		out = append(out, Resolved{AbsolutePath: m, SourcePath: pattern})
	}
	return out, nil
}

// matchSuffix matches a "**" tail pattern against a slash-relative path:
// the tail may match the whole relative path or any trailing run of its
// segments.
func matchSuffix(tail, rel string) bool {
	if tail == "" {
		return true
	}
	segments := strings.Split(rel, "/")
	for i := range segments {
		candidate := strings.Join(segments[i:], "/")
		if ok, err := filepath.Match(tail, candidate); err == nil && ok {
			return true
		}
	}
	return false
}

// Discoverer resolves path and glob patterns into datafiles.
type Discoverer struct {
	fs       afero.Fs
	resolver IncludeResolver
}

// NewDiscoverer builds a Discoverer over fs. A nil resolver defaults to
// GlobResolver on the same filesystem.
func NewDiscoverer(fs afero.Fs, resolver IncludeResolver) *Discoverer {
	if resolver == nil {
		resolver = &GlobResolver{Fs: fs}
	}
	return &Discoverer{fs: fs, resolver: resolver}
}

// Discover resolves patterns against cwd into a deduplicated, path-sorted
// list of resource files. Unresolvable patterns become errors, never
// aborts. Directories are walked recursively; files with unmapped
// extensions are skipped inside directories but rejected when named
// directly.
func (d *Discoverer) Discover(patterns []string, cwd string) ([]datafile.ResourceFile, []datafile.MigrationError) {
	var errs datafile.ErrorList
	seen := map[string]bool{}
	var candidates []string

	addCandidate := func(abs string) {
		abs = filepath.Clean(abs)
		if seen[abs] {
			return
		}
		seen[abs] = true
		candidates = append(candidates, abs)
	}

	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, pattern)
		}

		info, statErr := d.fs.Stat(abs)
		switch {
		case statErr == nil && info.IsDir():
			d.walkDirectory(abs, addCandidate, &errs)
		case statErr == nil:
			if _, ok := datafile.KindForPath(abs); !ok {
				errs.Push(datafile.NewDiscoveryError(pattern, datafile.KindUnknown,
					"unsupported file extension %q (expected %s)", filepath.Ext(abs), strings.Join(datafile.Extensions(), ", ")))
				continue
			}
			addCandidate(abs)
		default:
			resolved, resErr := d.resolver.Resolve(pattern, cwd)
			if resErr != nil {
				errs.Push(datafile.NewDiscoveryError(pattern, datafile.KindUnknown, "cannot resolve pattern: %v", resErr))
				continue
			}
			if len(resolved) == 0 {
				errs.Push(datafile.NewDiscoveryError(pattern, datafile.KindUnknown, "pattern matched no files"))
				continue
			}
			for _, res := range resolved {
				if _, ok := datafile.KindForPath(res.AbsolutePath); ok {
					addCandidate(res.AbsolutePath)
				}
			}
		}
	}

	files := d.readAll(candidates, cwd, &errs)
	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })

	debug.Debug("discovery complete", "files", len(files), "errors", len(errs.Errors()))
	return files, errs.Errors()
}

func (d *Discoverer) walkDirectory(dir string, addCandidate func(string), errs *datafile.ErrorList) {
	walkErr := afero.Walk(d.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		// Directories hold mixed content; unmapped extensions are
		// silently skipped here.
		if _, ok := datafile.KindForPath(path); ok {
			addCandidate(path)
		}
		return nil
	})
	if walkErr != nil {
		errs.Push(datafile.NewDiscoveryError(dir, datafile.KindUnknown, "cannot walk directory: %v", walkErr))
	}
}

func (d *Discoverer) readAll(candidates []string, cwd string, errs *datafile.ErrorList) []datafile.ResourceFile {
	files := make([]datafile.ResourceFile, 0, len(candidates))
	for _, abs := range candidates {
		kind, _ := datafile.KindForPath(abs)
		content, readErr := afero.ReadFile(d.fs, abs)
		if readErr != nil {
			errs.Push(datafile.NewDiscoveryError(relativePath(cwd, abs), kind, "cannot read file: %v", readErr))
			continue
		}
		files = append(files, datafile.NewResourceFile(kind, relativePath(cwd, abs), abs, string(content)))
	}
	return files
}

// relativePath returns abs relative to cwd in POSIX form, falling back
// to the absolute path when no relative form exists.
func relativePath(cwd, abs string) string {
	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
