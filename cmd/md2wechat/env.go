package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-md2wechat/internal/clipboard"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Getenv func(string) string
	// Clipboard replaces the writer selected by export.clipboard when set.
	Clipboard clipboard.Writer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
	}
}
