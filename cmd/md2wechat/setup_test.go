package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadConfig - Flag, environment and defaults
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults without a config", func(t *testing.T) {
		t.Parallel()

		cfg, err := loadConfig("", func(string) string { return "" })
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Style.Default != config.DefaultStyle {
			t.Errorf("Style.Default = %q", cfg.Style.Default)
		}
	})

	t.Run("flag wins over environment", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		flagPath := writeFile(t, dir, "flag.yaml", "style:\n  default: wechat-tech\n")
		envPath := writeFile(t, dir, "env.yaml", "style:\n  default: wechat-default\n")
		getenv := func(k string) string {
			if k == config.EnvConfig {
				return envPath
			}
			return ""
		}

		cfg, err := loadConfig(flagPath, getenv)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Style.Default != "wechat-tech" {
			t.Errorf("Style.Default = %q, want wechat-tech", cfg.Style.Default)
		}
	})

	t.Run("environment overrides apply to the file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "c.yaml", "log:\n  level: info\n")
		env := map[string]string{config.EnvLogLevel: "debug"}

		cfg, err := loadConfig(path, func(k string) string { return env[k] })
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
		}
	})

	t.Run("invalid environment value fails validation", func(t *testing.T) {
		t.Parallel()

		env := map[string]string{config.EnvLogLevel: "loud"}
		_, err := loadConfig("", func(k string) string { return env[k] })
		if !errors.Is(err, config.ErrConfigInvalid) {
			t.Errorf("error = %v, want ErrConfigInvalid", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClipboardWriter - Export destination selection
// ---------------------------------------------------------------------------

func TestClipboardWriter(t *testing.T) {
	t.Parallel()

	mem := &clipboard.MemoryWriter{}
	outDir := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name    string
		mode    string
		opts    appOptions
		env     *Environment
		wantNil bool
		check   func(t *testing.T, w clipboard.Writer)
	}{
		{
			name:    "serve never writes",
			mode:    "file",
			opts:    appOptions{noClipboard: true},
			env:     &Environment{Clipboard: mem},
			wantNil: true,
		},
		{
			name: "environment override",
			mode: "command",
			env:  &Environment{Clipboard: mem},
			check: func(t *testing.T, w clipboard.Writer) {
				if w != clipboard.Writer(mem) {
					t.Errorf("writer = %T, want the injected writer", w)
				}
			},
		},
		{
			name: "out directory",
			mode: "none",
			opts: appOptions{outDir: outDir},
			env:  &Environment{},
			check: func(t *testing.T, w clipboard.Writer) {
				fw, ok := w.(clipboard.FileWriter)
				if !ok || fw.Dir != outDir {
					t.Errorf("writer = %#v, want FileWriter in %s", w, outDir)
				}
			},
		},
		{
			name:    "none",
			mode:    "none",
			env:     &Environment{},
			wantNil: true,
		},
		{
			name: "file",
			mode: "file",
			env:  &Environment{},
			check: func(t *testing.T, w clipboard.Writer) {
				if _, ok := w.(clipboard.FileWriter); !ok {
					t.Errorf("writer = %T, want FileWriter", w)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, err := clipboardWriter(config.ExportConfig{Clipboard: tt.mode}, tt.opts, tt.env)
			if err != nil {
				t.Fatalf("clipboardWriter() error = %v", err)
			}
			if tt.wantNil {
				if w != nil {
					t.Errorf("writer = %T, want nil", w)
				}
				return
			}
			tt.check(t, w)
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewHost - Upload host mapping
// ---------------------------------------------------------------------------

func TestNewHost(t *testing.T) {
	t.Parallel()

	if h := newHost(nil); h != nil {
		t.Errorf("newHost(nil) = %v, want nil", h)
	}

	h := newHost(&config.HostConfig{Endpoint: "https://img.example.com/upload"})
	if h == nil || h.Name() != "https://img.example.com/upload" {
		t.Errorf("newHost() name = %v, want endpoint as name", h)
	}
}

// ---------------------------------------------------------------------------
// TestServe - HTTP backend lifecycle
// ---------------------------------------------------------------------------

func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("stops with the context", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, memoryPrefsConfig, "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := runServe(ctx, []string{"-q", "--addr", "127.0.0.1:0"}, env.Environment); err != nil {
			t.Errorf("runServe() error = %v", err)
		}
	})

	t.Run("rejects arguments", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, memoryPrefsConfig, "")
		err := runServe(context.Background(), []string{"extra"}, env.Environment)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("error = %v, want ErrUsage", err)
		}
	})
}
