package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "render":
		err = runRender(ctx, rest, env)
	case "export":
		err = runExport(ctx, rest, env)
	case "paste":
		err = runPaste(ctx, rest, env)
	case "upload":
		err = runUpload(ctx, rest, env)
	case "styles":
		err = runStyles(ctx, rest, env)
	case "snapshot":
		err = runSnapshot(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2wechat %s\n", Version)
	case "help", "-h", "--help":
		runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns a hint for errors whose fix is outside the command line.
// Config and style hints are attached where those errors are created.
func hintFor(err error) string {
	switch {
	case errors.Is(err, md2wechat.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, md2wechat.ErrNoClipboard), errors.Is(err, md2wechat.ErrClipboardWrite):
		if strings.Contains(err.Error(), "hint:") {
			return ""
		}
		return hints.ForClipboard()
	default:
		return ""
	}
}

// document is one Markdown input.
type document struct {
	markdown string
	// path is empty for stdin.
	path string
}

func (d document) input(style string) md2wechat.Input {
	in := md2wechat.Input{Markdown: d.markdown, Style: style}
	if d.path != "" {
		if abs, err := filepath.Abs(d.path); err == nil {
			in.SourceDir = filepath.Dir(abs)
		}
	}
	return in
}

// readDocument reads the Markdown file named by args, or stdin when args is
// empty or "-".
func readDocument(args []string, env *Environment) (document, error) {
	if len(args) > 1 {
		return document{}, fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := readLimited(env.Stdin, fileutil.MaxMarkdownSize)
		if err != nil {
			return document{}, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return document{markdown: string(data)}, nil
	}

	content, err := fileutil.ReadMarkdown(args[0])
	if errors.Is(err, fileutil.ErrNotMarkdown) {
		return document{}, err
	}
	if err != nil {
		return document{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return document{markdown: content, path: args[0]}, nil
}

// readLimited reads r up to limit bytes and fails beyond it.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", fileutil.ErrFileTooLarge, limit)
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte, env *Environment) error {
	if path == "" {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printNotifications writes notifications to stderr unless quiet. Errors
// are always shown.
func printNotifications(w io.Writer, notes []md2wechat.Notification, quiet bool) {
	for _, n := range notes {
		if quiet && n.Severity != md2wechat.SeverityError {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", n.Severity, n.Message)
	}
}
