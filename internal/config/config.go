// Package config loads and validates the YAML configuration of the
// converter, its CLI and its HTTP backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// Environment variables read by ApplyEnv and the CLI.
const (
	EnvConfig   = "MD2WECHAT_CONFIG"
	EnvStyle    = "MD2WECHAT_STYLE"
	EnvLogLevel = "MD2WECHAT_LOG_LEVEL"
)

// DirName is the directory under the user config dir searched for configs.
const DirName = "go-md2wechat"

// DefaultStyle is the style profile used when none is configured.
const DefaultStyle = "wechat-anthropic"

// Duration is a time.Duration written as "15s", "500ms".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration.
type Config struct {
	Style  StyleConfig  `yaml:"style"`
	Export ExportConfig `yaml:"export"`
	Upload UploadConfig `yaml:"upload"`
	Prefs  PrefsConfig  `yaml:"prefs"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// StyleConfig selects style profiles.
type StyleConfig struct {
	Default     string `yaml:"default" validate:"omitempty,max=64,excludesall=/\\."`
	ProfilesDir string `yaml:"profilesDir" validate:"max=4096"` // empty = embedded only
}

// ExportConfig tunes clipboard export.
type ExportConfig struct {
	FetchTimeout Duration `yaml:"fetchTimeout" validate:"gte=0"`
	Retries      int      `yaml:"retries" validate:"gte=0,lte=10"`
	Concurrency  int      `yaml:"concurrency" validate:"gte=0,lte=64"`
	Clipboard    string   `yaml:"clipboard" validate:"omitempty,oneof=auto command file none"`
	OutputDir    string   `yaml:"outputDir" validate:"max=4096"` // for clipboard: file
}

// UploadConfig defines image hosts. A nil Primary embeds every image.
type UploadConfig struct {
	MaxSize   int64       `yaml:"maxSize" validate:"gte=0"`
	Primary   *HostConfig `yaml:"primary" validate:"omitempty"`
	Secondary *HostConfig `yaml:"secondary" validate:"omitempty"`
}

// HostConfig describes one multipart image host.
type HostConfig struct {
	Name      string            `yaml:"name" validate:"max=100"`
	Endpoint  string            `yaml:"endpoint" validate:"required,url,max=2048"`
	FileField string            `yaml:"fileField" validate:"max=100"`
	URLPath   string            `yaml:"urlPath" validate:"max=200"`
	Fields    map[string]string `yaml:"fields" validate:"dive,max=2048"`
	Headers   map[string]string `yaml:"headers" validate:"dive,max=4096"`
	Timeout   Duration          `yaml:"timeout" validate:"gte=0"`
	Retries   int               `yaml:"retries" validate:"gte=0,lte=10"`
}

// PrefsConfig selects the preference store.
type PrefsConfig struct {
	Backend       string `yaml:"backend" validate:"omitempty,oneof=file redis memory"`
	Path          string `yaml:"path" validate:"max=4096"`
	RedisAddr     string `yaml:"redisAddr" validate:"required_if=Backend redis,max=255"`
	RedisPassword string `yaml:"redisPassword" validate:"max=255"`
	RedisDB       int    `yaml:"redisDB" validate:"gte=0,lte=15"`
	RedisPrefix   string `yaml:"redisPrefix" validate:"max=100"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json pretty"`
}

// ServerConfig configures the HTTP backend.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"max=255"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,max=2048"`
}

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s: failed %q", ErrConfigInvalid, fieldPath(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// fieldPath drops the root type from "Config.upload.primary.endpoint".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Style:  StyleConfig{Default: DefaultStyle},
		Export: ExportConfig{FetchTimeout: Duration(15 * time.Second), Retries: 2, Concurrency: 8, Clipboard: "auto"},
		Upload: UploadConfig{MaxSize: 5 << 20},
		Prefs:  PrefsConfig{Backend: "file", RedisPrefix: "md2wechat:"},
		Log:    LogConfig{Level: "warn", Format: "console"},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// ApplyEnv overrides the style and log level from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvStyle)); v != "" {
		c.Style.Default = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// LoadConfig loads configuration from a file path or config name. Values
// absent from the file keep their defaults. A name is searched in the
// current directory, then in the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, DirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
