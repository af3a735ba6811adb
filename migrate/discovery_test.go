package migrate

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/tinybird-community/tinybird-go/datafile"
)

func writeTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/events.datasource", "ENGINE \"MergeTree\"\n")
	writeTestFile(t, fs, "/ws/pipes/stats.pipe", "NODE a\n")
	writeTestFile(t, fs, "/ws/README.md", "# notes\n")
	writeTestFile(t, fs, "/ws/node_modules/dep.datasource", "ENGINE \"MergeTree\"\n")

	files, errs := NewDiscoverer(fs, nil).Discover([]string{"."}, "/ws")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	if files[0].FilePath != "events.datasource" || files[0].Kind != datafile.KindDatasource {
		t.Errorf("file 0 = %+v", files[0])
	}
	if files[1].FilePath != "pipes/stats.pipe" || files[1].Kind != datafile.KindPipe {
		t.Errorf("file 1 = %+v", files[1])
	}
}

func TestDiscoverDeduplicatesOverlappingPatterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/events.datasource", "ENGINE \"MergeTree\"\n")

	files, errs := NewDiscoverer(fs, nil).Discover([]string{".", "events.datasource"}, "/ws")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %+v", len(files), files)
	}
}

func TestDiscoverGlobPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/a.pipe", "NODE a\n")
	writeTestFile(t, fs, "/ws/b.pipe", "NODE b\n")
	writeTestFile(t, fs, "/ws/c.datasource", "ENGINE \"MergeTree\"\n")

	files, errs := NewDiscoverer(fs, nil).Discover([]string{"*.pipe"}, "/ws")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	for _, f := range files {
		if f.Kind != datafile.KindPipe {
			t.Errorf("file %s has kind %q", f.FilePath, f.Kind)
		}
	}
}

func TestDiscoverDoubleStarPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/deep/nested/events.datasource", "ENGINE \"MergeTree\"\n")
	writeTestFile(t, fs, "/ws/deep/other.pipe", "NODE a\n")

	files, errs := NewDiscoverer(fs, nil).Discover([]string{"**/*.datasource"}, "/ws")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(files) != 1 || files[0].FilePath != "deep/nested/events.datasource" {
		t.Fatalf("files = %+v", files)
	}
}

func TestDiscoverErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/notes.txt", "hello\n")

	tests := []struct {
		name    string
		pattern string
		wantMsg string
	}{
		{
			name:    "unsupported extension named directly",
			pattern: "notes.txt",
			wantMsg: "unsupported file extension",
		},
		{
			name:    "pattern with no matches",
			pattern: "missing/*.pipe",
			wantMsg: "pattern matched no files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, errs := NewDiscoverer(fs, nil).Discover([]string{tt.pattern}, "/ws")
			if len(files) != 0 {
				t.Errorf("unexpected files: %+v", files)
			}
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("error %q does not mention %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestDiscoverErrorsDoNotSuppressSiblings(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "/ws/events.datasource", "ENGINE \"MergeTree\"\n")

	files, errs := NewDiscoverer(fs, nil).Discover([]string{"missing/*.pipe", "."}, "/ws")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1: %+v", len(files), files)
	}
}

func TestMatchSuffix(t *testing.T) {
	tests := []struct {
		tail string
		rel  string
		want bool
	}{
		{"*.datasource", "events.datasource", true},
		{"*.datasource", "nested/events.datasource", true},
		{"*.datasource", "events.pipe", false},
		{"nested/*.pipe", "deep/nested/a.pipe", true},
		{"", "anything", true},
	}
	for _, tt := range tests {
		if got := matchSuffix(tt.tail, tt.rel); got != tt.want {
			t.Errorf("matchSuffix(%q, %q) = %v, want %v", tt.tail, tt.rel, got, tt.want)
		}
	}
}
