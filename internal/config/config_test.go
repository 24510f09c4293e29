package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Style.Default != DefaultStyle {
		t.Errorf("Style.Default = %q, want %q", cfg.Style.Default, DefaultStyle)
	}
	if cfg.Export.FetchTimeout.Std() != 15*time.Second {
		t.Errorf("Export.FetchTimeout = %v, want 15s", cfg.Export.FetchTimeout.Std())
	}
	if cfg.Upload.MaxSize != 5<<20 {
		t.Errorf("Upload.MaxSize = %d, want 5 MiB", cfg.Upload.MaxSize)
	}
	if cfg.Upload.Primary != nil {
		t.Error("Upload.Primary set by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "test.yaml", `style:
  default: wechat-tech
export:
  fetchTimeout: 3s
  clipboard: file
  outputDir: ./out
upload:
  primary:
    name: picsum
    endpoint: https://img.example.com/api/upload
    fileField: image
    urlPath: data.links.url
    headers:
      Authorization: Bearer x
    timeout: 10s
    retries: 2
prefs:
  backend: redis
  redisAddr: localhost:6379
log:
  level: debug
  format: json
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Style.Default != "wechat-tech" {
			t.Errorf("Style.Default = %q", cfg.Style.Default)
		}
		if cfg.Export.FetchTimeout.Std() != 3*time.Second {
			t.Errorf("Export.FetchTimeout = %v, want 3s", cfg.Export.FetchTimeout.Std())
		}
		if cfg.Export.Concurrency != 8 {
			t.Errorf("Export.Concurrency = %d, want default 8", cfg.Export.Concurrency)
		}
		p := cfg.Upload.Primary
		if p == nil || p.Endpoint != "https://img.example.com/api/upload" || p.Timeout.Std() != 10*time.Second {
			t.Fatalf("Upload.Primary = %+v", p)
		}
		if p.Headers["Authorization"] != "Bearer x" {
			t.Errorf("Upload.Primary.Headers = %v", p.Headers)
		}
		if cfg.Prefs.Backend != "redis" || cfg.Log.Format != "json" {
			t.Errorf("Prefs/Log = %+v / %+v", cfg.Prefs, cfg.Log)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "invalid.yaml", "style: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "unknown.yaml", "style:\n  colour: red\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("bad duration returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "dur.yaml", "export:\n  fetchTimeout: soon\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("name is searched in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "team.yml", "log:\n  level: info\n")
		t.Chdir(dir)

		cfg, err := LoadConfig("team")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
		}
	})

	t.Run("missing name lists searched paths", func(t *testing.T) {
		t.Chdir(t.TempDir())
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
			t.Errorf("error = %v, want searched paths", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"style key with dot", func(c *Config) { c.Style.Default = "../x" }, "style.default"},
		{"retries too high", func(c *Config) { c.Export.Retries = 11 }, "export.retries"},
		{"unknown clipboard mode", func(c *Config) { c.Export.Clipboard = "fax" }, "export.clipboard"},
		{"host without endpoint", func(c *Config) { c.Upload.Primary = &HostConfig{Name: "x"} }, "upload.primary.endpoint"},
		{"host endpoint not a URL", func(c *Config) { c.Upload.Secondary = &HostConfig{Endpoint: "not a url"} }, "upload.secondary.endpoint"},
		{"redis without addr", func(c *Config) { c.Prefs.Backend = "redis" }, "prefs.redisAddr"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"origin too long", func(c *Config) { c.Server.AllowedOrigins = []string{strings.Repeat("a", 2049)} }, "server.allowedOrigins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrConfigInvalid) {
				t.Fatalf("Validate() error = %v, want ErrConfigInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want field %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{EnvStyle: "wechat-default", EnvLogLevel: "DEBUG"}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Style.Default != "wechat-default" {
		t.Errorf("Style.Default = %q", cfg.Style.Default)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}

	untouched := DefaultConfig()
	untouched.ApplyEnv(func(string) string { return "" })
	if untouched.Style.Default != DefaultStyle {
		t.Errorf("empty env changed Style.Default to %q", untouched.Style.Default)
	}
}
