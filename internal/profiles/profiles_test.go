package profiles

// Notes:
// - Embedded profiles are exercised through the public loaders; every file
//   under styles/ must parse and validate, otherwise LoadTable fails.
// - Symlink escape is covered on platforms that support os.Symlink.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

const validProfile = `name: Custom
container: "background-color: #000000"
styles:
  - selector: h1
    style: "color: red"
  - selector: blockquote p
    style: "margin: 0"
`

func writeProfile(t *testing.T, dir, file, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateKey - Profile key safety
// ---------------------------------------------------------------------------

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		wantErr bool
	}{
		{"wechat-default", false},
		{"custom_1", false},
		{"", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{"name.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse - Document decoding and validation
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("keeps rule order", func(t *testing.T) {
		t.Parallel()

		p, err := Parse("custom", []byte(validProfile))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if p.Key != "custom" || p.Name != "Custom" {
			t.Errorf("Key/Name = %q/%q", p.Key, p.Name)
		}
		if len(p.Styles) != 2 || p.Styles[0].Selector != "h1" || p.Styles[1].Selector != "blockquote p" {
			t.Errorf("Styles = %+v", p.Styles)
		}
		if got, ok := p.Style("h1"); !ok || got != "color: red" {
			t.Errorf("Style(h1) = %q, %v", got, ok)
		}
	})

	tests := []struct {
		name string
		data string
	}{
		{"missing name", "container: \"x: y\"\n"},
		{"unknown field", "name: X\ncolour: red\n"},
		{"bad selector", "name: X\nstyles:\n  - selector: \"p[\"\n    style: \"a: b\"\n"},
		{"empty selector", "name: X\nstyles:\n  - selector: \"\"\n    style: \"a: b\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("bad", []byte(tt.data))
			if !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("Parse() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestIsCodeSelector(t *testing.T) {
	t.Parallel()

	for _, sel := range []string{"pre", "code", "pre code", "pre  code"} {
		if !IsCodeSelector(sel) {
			t.Errorf("IsCodeSelector(%q) = false", sel)
		}
	}
	for _, sel := range []string{"p", "p code", "precode"} {
		if IsCodeSelector(sel) {
			t.Errorf("IsCodeSelector(%q) = true", sel)
		}
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader - Built-in profiles
// ---------------------------------------------------------------------------

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	l := NewEmbeddedLoader()
	keys, err := l.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	for _, want := range []string{"wechat-anthropic", "wechat-default", "wechat-tech"} {
		if !slices.Contains(keys, want) {
			t.Errorf("Keys() missing %q: %v", want, keys)
		}
	}

	for _, k := range keys {
		p, err := l.Load(k)
		if err != nil {
			t.Errorf("Load(%q) error: %v", k, err)
			continue
		}
		if p.Container == "" {
			t.Errorf("Load(%q) has empty container", k)
		}
	}

	if _, err := l.Load("missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrProfileNotFound", err)
	}
	if _, err := l.Load("../x"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Load(../x) error = %v, want ErrInvalidKey", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader - Profiles from disk
// ---------------------------------------------------------------------------

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfile(t, dir, "custom.yaml", validProfile)
	writeProfile(t, dir, "short.yml", validProfile)
	writeProfile(t, dir, "notes.txt", "ignored")

	l, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}

	keys, err := l.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if !slices.Equal(keys, []string{"custom", "short"}) {
		t.Errorf("Keys() = %v", keys)
	}
	if _, err := l.Load("short"); err != nil {
		t.Errorf("Load(short) error: %v", err)
	}
	if _, err := l.Load("absent"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Load(absent) error = %v, want ErrProfileNotFound", err)
	}
}

func TestNewFilesystemLoader_InvalidPath(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.yaml")
	writeProfile(t, filepath.Dir(file), "file.yaml", validProfile)

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing"), file} {
		if _, err := NewFilesystemLoader(path); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(%q) error = %v, want ErrInvalidBasePath", path, err)
		}
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	t.Parallel()

	outside := t.TempDir()
	writeProfile(t, outside, "secret.yaml", validProfile)

	dir := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "secret.yaml"), filepath.Join(dir, "secret.yaml")); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	l, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}
	if _, err := l.Load("secret"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("Load(secret) error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// TestResolver - Custom-first lookup
// ---------------------------------------------------------------------------

func TestResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	override := "name: Overridden\ncontainer: \"background-color: #ffffff\"\n"
	writeProfile(t, dir, "wechat-default.yaml", override)
	writeProfile(t, dir, "custom.yaml", validProfile)
	writeProfile(t, dir, "broken.yaml", "name: [")

	r, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}
	if !r.HasCustomLoader() {
		t.Error("HasCustomLoader() = false")
	}

	p, err := r.Load("wechat-default")
	if err != nil || p.Name != "Overridden" {
		t.Errorf("Load(wechat-default) = %q, %v; want custom override", p.Name, err)
	}
	if p, err := r.Load("wechat-tech"); err != nil || p.Name != "Tech" {
		t.Errorf("Load(wechat-tech) = %q, %v; want embedded fallback", p.Name, err)
	}
	if _, err := r.Load("broken"); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Load(broken) error = %v, want ErrInvalidProfile without fallback", err)
	}

	keys, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if !slices.Contains(keys, "custom") || !slices.Contains(keys, "wechat-anthropic") {
		t.Errorf("Keys() = %v, want union", keys)
	}
	if !slices.IsSorted(keys) {
		t.Errorf("Keys() not sorted: %v", keys)
	}
}

// ---------------------------------------------------------------------------
// TestTable - Loaded profile set
// ---------------------------------------------------------------------------

func TestTable(t *testing.T) {
	t.Parallel()

	table, err := LoadTable(NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}

	if !table.Has("wechat-anthropic") {
		t.Error("Has(wechat-anthropic) = false")
	}
	if got := table.Name("wechat-anthropic"); got != "Anthropic" {
		t.Errorf("Name() = %q, want Anthropic", got)
	}
	if got := table.Name("unknown-key"); got != "unknown-key" {
		t.Errorf("Name(unknown) = %q, want key itself", got)
	}
	if _, err := table.Get("unknown-key"); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrProfileNotFound", err)
	}

	keys := table.Keys()
	keys[0] = "mutated"
	if table.Keys()[0] == "mutated" {
		t.Error("Keys() exposes internal slice")
	}
}

func TestLoadTable_InvalidProfileFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeProfile(t, dir, "broken.yaml", "container: \"a: b\"\n")

	l, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}
	if _, err := LoadTable(l); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("LoadTable() error = %v, want ErrInvalidProfile", err)
	}
}
