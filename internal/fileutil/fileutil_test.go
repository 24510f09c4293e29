package fileutil_test

// Notes:
// - The WriteString and Close error branches in WriteTempFile are not tested:
//   triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid html", "html", nil},
		{"empty", "", fileutil.ErrExtensionEmpty},
		{"forward slash", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash", "..\\windows", fileutil.ErrExtensionPathTraversal},
		{"null byte", "html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<p>preview</p>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "md2wechat-") || filepath.Ext(path) != ".html" {
		t.Errorf("path = %q, want md2wechat-*.html", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<p>preview</p>" {
		t.Errorf("content = %q, %v", data, err)
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Error("file still exists after cleanup")
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	if _, _, err := fileutil.WriteTempFile("x", "a/b"); !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("error = %v, want ErrExtensionPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestPaths - Path classification
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"team":             false,
		"my-config":        false,
		"./team.yaml":      true,
		"/etc/team.yaml":   true,
		`C:\cfg\team.yaml`: true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"post.md":       true,
		"POST.MD":       true,
		"a.markdown":    true,
		"notes.txt":     false,
		"README":        false,
		"dir.md/x.html": false,
	}
	for in, want := range tests {
		if got := fileutil.IsMarkdown(in); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestReadMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := filepath.Join(dir, "post.md")
	if err := os.WriteFile(md, []byte("# Hi"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := fileutil.ReadMarkdown(md)
	if err != nil || got != "# Hi" {
		t.Errorf("ReadMarkdown() = %q, %v", got, err)
	}

	if _, err := fileutil.ReadMarkdown(filepath.Join(dir, "post.txt")); !errors.Is(err, fileutil.ErrNotMarkdown) {
		t.Errorf("error = %v, want ErrNotMarkdown", err)
	}
	if _, err := fileutil.ReadMarkdown(filepath.Join(dir, "missing.md")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
}
