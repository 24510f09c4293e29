// Package logging defines the leveled logger used across the converter and
// its go-logger backed implementation. Library code logs through Logger and
// never prints.
package logging

import (
	"context"
	"maps"
)

// Logger is the leveled logging contract. It mirrors go-logger so the
// provider adapts it without translation.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// WithFields attaches fields when logger supports it and returns logger
// unchanged otherwise.
func WithFields(logger Logger, fields map[string]any) Logger {
	if logger == nil {
		return NoOp()
	}
	if len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}

// OrNoOp returns logger, or a NoOp logger when it is nil.
func OrNoOp(logger Logger) Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

type noop struct{}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

func (noop) Trace(string, ...any)                 {}
func (noop) Debug(string, ...any)                 {}
func (noop) Info(string, ...any)                  {}
func (noop) Warn(string, ...any)                  {}
func (noop) Error(string, ...any)                 {}
func (n noop) WithContext(context.Context) Logger { return n }
func (n noop) WithFields(map[string]any) Logger   { return n }
