package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// ---------------------------------------------------------------------------
// TestUpload - Image upload into a buffer
// ---------------------------------------------------------------------------

func TestUpload(t *testing.T) {
	t.Parallel()

	writeImages := func(t *testing.T, names ...string) []string {
		t.Helper()
		dir := t.TempDir()
		paths := make([]string, 0, len(names))
		for _, n := range names {
			p := filepath.Join(dir, n)
			if err := os.WriteFile(p, pngBytes, 0o600); err != nil {
				t.Fatal(err)
			}
			paths = append(paths, p)
		}
		return paths
	}

	t.Run("configured host returns URLs one per line", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, _, err := r.FormFile("file"); err != nil {
				http.Error(w, "no file", http.StatusBadRequest)
				return
			}
			n := calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"data":{"url":"https://cdn.example.com/%d.png"}}`, n)
		}))
		defer srv.Close()

		cfg := memoryPrefsConfig + "upload:\n  primary:\n    name: test\n    endpoint: " + srv.URL + "/upload\n"
		env := newTestEnv(t, cfg, "")
		args := append([]string{"upload"}, writeImages(t, "a.png", "b.png")...)

		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
		}
		want := "![a](https://cdn.example.com/1.png)\n![b](https://cdn.example.com/2.png)"
		if env.stdout.String() != want {
			t.Errorf("stdout = %q, want %q", env.stdout, want)
		}
	})

	t.Run("no host embeds and notes it", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, memoryPrefsConfig, "")
		args := append([]string{"upload"}, writeImages(t, "c.png")...)

		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
		}
		if !strings.HasPrefix(env.stdout.String(), "![c](data:image/png;base64,") {
			t.Errorf("stdout = %q, want embedded image", env.stdout)
		}
		if !strings.Contains(env.stderr.String(), "no image host configured") {
			t.Errorf("stderr = %q, want host note", env.stderr)
		}
	})

	t.Run("inserts at the cursor of an existing file", func(t *testing.T) {
		t.Parallel()

		into := writeFile(t, t.TempDir(), "post.md", "ab")
		env := newTestEnv(t, memoryPrefsConfig, "")
		args := append([]string{"upload", "-q", "--into", into, "--cursor", "1"}, writeImages(t, "d.png")...)

		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("exit = %d, stderr: %s", code, env.stderr)
		}
		got, _ := os.ReadFile(into)
		if !strings.HasPrefix(string(got), "a![d](data:") || !strings.HasSuffix(string(got), ")b") {
			t.Errorf("buffer = %q", got)
		}
	})

	t.Run("non-image is rejected", func(t *testing.T) {
		t.Parallel()

		txt := writeFile(t, t.TempDir(), "notes.txt", "hello")
		env := newTestEnv(t, memoryPrefsConfig, "")
		if code := runMain([]string{"upload", "-q", txt}, env.Environment); code != ExitUsage {
			t.Errorf("exit = %d, want %d (stderr: %s)", code, ExitUsage, env.stderr)
		}
		if !strings.Contains(env.stderr.String(), "error: Only image files can be uploaded") {
			t.Errorf("stderr = %q, want reject notification", env.stderr)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, memoryPrefsConfig, "")
		if code := runMain([]string{"upload", "/nonexistent/a.png"}, env.Environment); code != ExitIO {
			t.Errorf("exit = %d, want %d", code, ExitIO)
		}
	})

	t.Run("no images", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, memoryPrefsConfig, "")
		if code := runMain([]string{"upload"}, env.Environment); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
	})
}
