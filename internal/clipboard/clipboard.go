// Package clipboard writes an exported article as one clipboard entry with
// an HTML and a plain-text representation.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Sentinel errors for clipboard writes.
var (
	ErrEmptyPayload = errors.New("nothing to copy")
	ErrNoTool       = errors.New("no clipboard tool found")
	ErrWrite        = errors.New("clipboard write failed")
)

// Payload is one multi-format clipboard entry.
type Payload struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// Empty reports whether both representations are blank.
func (p Payload) Empty() bool {
	return strings.TrimSpace(p.HTML) == "" && strings.TrimSpace(p.Text) == ""
}

// Writer stores a payload on some clipboard.
type Writer interface {
	Write(ctx context.Context, p Payload) error
}

// MemoryWriter keeps the last payload in memory.
type MemoryWriter struct {
	mu     sync.Mutex
	last   Payload
	writes int
}

// Write records p.
func (m *MemoryWriter) Write(_ context.Context, p Payload) error {
	if p.Empty() {
		return ErrEmptyPayload
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = p
	m.writes++
	return nil
}

// Last returns the last payload written.
func (m *MemoryWriter) Last() (Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.writes > 0
}

// Writes returns how many payloads were written.
func (m *MemoryWriter) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FileWriter writes <Base>.html and <Base>.txt in Dir.
type FileWriter struct {
	Dir  string
	Base string
}

// Paths returns the HTML and text file paths.
func (f FileWriter) Paths() (htmlPath, textPath string) {
	base := f.Base
	if base == "" {
		base = "clipboard"
	}
	return filepath.Join(f.Dir, base+".html"), filepath.Join(f.Dir, base+".txt")
}

// Write writes both files.
func (f FileWriter) Write(_ context.Context, p Payload) error {
	if p.Empty() {
		return ErrEmptyPayload
	}
	if f.Dir != "" {
		if err := os.MkdirAll(f.Dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	htmlPath, textPath := f.Paths()
	if err := os.WriteFile(htmlPath, []byte(p.HTML), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(textPath, []byte(p.Text), 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Tool is a clipboard command. HTMLArgs is nil when the tool only takes
// plain text.
type Tool struct {
	Name     string
	HTMLArgs []string
	TextArgs []string
}

// Known tools, in preference order per platform.
var (
	wlCopy  = Tool{Name: "wl-copy", HTMLArgs: []string{"--type", "text/html"}, TextArgs: []string{}}
	xclip   = Tool{Name: "xclip", HTMLArgs: []string{"-selection", "clipboard", "-t", "text/html"}, TextArgs: []string{"-selection", "clipboard"}}
	xsel    = Tool{Name: "xsel", TextArgs: []string{"--clipboard", "--input"}}
	pbcopy  = Tool{Name: "pbcopy", TextArgs: []string{}}
	clipExe = Tool{Name: "clip.exe", TextArgs: []string{}}
)

func candidates(goos string) []Tool {
	switch goos {
	case "darwin":
		return []Tool{pbcopy}
	case "windows":
		return []Tool{clipExe}
	default:
		if os.Getenv("WAYLAND_DISPLAY") != "" {
			return []Tool{wlCopy, xclip, xsel}
		}
		return []Tool{xclip, xsel, wlCopy}
	}
}

// CommandWriter pipes the payload into a clipboard command. Tools that
// accept an HTML target receive the HTML; the others receive the text.
type CommandWriter struct {
	Tool Tool
}

// DetectTool returns the first clipboard tool found on PATH.
func DetectTool(lookPath func(string) (string, error)) (Tool, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, t := range candidates(runtime.GOOS) {
		if _, err := lookPath(t.Name); err == nil {
			return t, nil
		}
	}
	return Tool{}, ErrNoTool
}

// NewCommandWriter detects a tool on PATH.
func NewCommandWriter() (*CommandWriter, error) {
	t, err := DetectTool(nil)
	if err != nil {
		return nil, err
	}
	return &CommandWriter{Tool: t}, nil
}

// Write runs the tool with the payload on stdin.
func (c *CommandWriter) Write(ctx context.Context, p Payload) error {
	if p.Empty() {
		return ErrEmptyPayload
	}
	args, input := c.Tool.TextArgs, p.Text
	if c.Tool.HTMLArgs != nil && p.HTML != "" {
		args, input = c.Tool.HTMLArgs, p.HTML
	}

	cmd := exec.CommandContext(ctx, c.Tool.Name, args...) // #nosec G204 -- tool name from the fixed table
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s: %v: %s", ErrWrite, c.Tool.Name, err, msg)
		}
		return fmt.Errorf("%w: %s: %v", ErrWrite, c.Tool.Name, err)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ Writer = (*MemoryWriter)(nil)
	_ Writer = FileWriter{}
	_ Writer = (*CommandWriter)(nil)
)
