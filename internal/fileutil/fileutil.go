// Package fileutil provides file and path helpers shared by the CLI, the
// snapshot renderer and the config loader.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotMarkdown            = errors.New("not a markdown file")
	ErrFileTooLarge           = errors.New("file too large")
)

// MaxMarkdownSize bounds Markdown files read from disk.
const MaxMarkdownSize = 10 << 20

// markdownExtensions are accepted by ReadMarkdown.
var markdownExtensions = []string{".md", ".markdown"}

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "md2wechat-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}
	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a
// name. A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "team" -> false (config or style name)
//   - "./team.yaml" -> true
//   - "C:\cfg\team.yaml" -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range markdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadMarkdown reads a .md or .markdown file of at most MaxMarkdownSize bytes.
func ReadMarkdown(path string) (string, error) {
	if !IsMarkdown(path) {
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > MaxMarkdownSize {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected input file
	if err != nil {
		return "", err
	}
	return string(data), nil
}
