package logging

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Config selects the go-logger level and output format.
type Config struct {
	Level     string // trace, debug, info, warn, error
	Format    string // json, console, pretty
	AddSource bool
}

// Provider hands out named go-logger child loggers.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds a go-logger root from cfg. Unknown formats are errors;
// an empty level keeps go-logger's default.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// GetLogger returns the child logger for a component name, or the root for
// an empty name.
func (p *Provider) GetLogger(name string) Logger {
	if p == nil || p.root == nil {
		return NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) Logger {
	if inner == nil {
		return NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

func (l *adapter) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.inner.WithContext(ctx))
}

func (l *adapter) WithFields(fields map[string]any) Logger {
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(fields))
	}
	return l
}

// parseLevel maps a config level onto go-logger's level names.
func parseLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	default:
		return "", fmt.Errorf("logging: unsupported level %q", level)
	}
}

// Compile-time interface checks.
var (
	_ Logger       = (*adapter)(nil)
	_ FieldsLogger = (*adapter)(nil)
	_ FieldsLogger = noop{}
)
