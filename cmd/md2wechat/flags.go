package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	style   string
	quiet   bool
	verbose bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.style, "style", "s", "", "style profile key")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting and
// prints usage through usage.
func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlags parses args and wraps parse errors in ErrUsage. flag.ErrHelp
// is returned unwrapped.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
	page   bool
	watch  bool
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", stderr, printRenderUsage)
	f := &renderFlags{}
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default stdout)")
	fs.BoolVar(&f.page, "page", false, "write a standalone HTML page")
	fs.BoolVarP(&f.watch, "watch", "w", false, "re-render when the input changes")
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common commonFlags
	out    string
}

func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	fs := newFlagSet("export", stderr, printExportUsage)
	f := &exportFlags{}
	fs.StringVar(&f.out, "out", "", "write clipboard.html and clipboard.txt to DIR")
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// bufferFlags selects the Markdown buffer a paste or upload writes into.
type bufferFlags struct {
	into   string
	cursor int
}

func addBufferFlags(fs *flag.FlagSet, f *bufferFlags) {
	fs.StringVar(&f.into, "into", "", "markdown file to insert into (default: print)")
	fs.IntVar(&f.cursor, "cursor", -1, "byte offset to insert at (default: end)")
}

// pasteFlags holds flags for the paste command.
type pasteFlags struct {
	common commonFlags
	buffer bufferFlags
	html   string
	text   string
	image  string
}

func parsePasteFlags(args []string, stderr io.Writer) (*pasteFlags, []string, error) {
	fs := newFlagSet("paste", stderr, printPasteUsage)
	f := &pasteFlags{}
	fs.StringVar(&f.html, "html", "", "file holding the pasted HTML")
	fs.StringVar(&f.text, "text", "", "file holding the pasted plain text (- for stdin)")
	fs.StringVar(&f.image, "image", "", "pasted image file")
	addBufferFlags(fs, &f.buffer)
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// uploadFlags holds flags for the upload command.
type uploadFlags struct {
	common commonFlags
	buffer bufferFlags
}

func parseUploadFlags(args []string, stderr io.Writer) (*uploadFlags, []string, error) {
	fs := newFlagSet("upload", stderr, printUploadUsage)
	f := &uploadFlags{}
	addBufferFlags(fs, &f.buffer)
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// snapshotFlags holds flags for the snapshot command.
type snapshotFlags struct {
	common commonFlags
	output string
	width  int
}

func parseSnapshotFlags(args []string, stderr io.Writer) (*snapshotFlags, []string, error) {
	fs := newFlagSet("snapshot", stderr, printSnapshotUsage)
	f := &snapshotFlags{}
	fs.StringVarP(&f.output, "output", "o", "", "output PNG file (default: input name with .png)")
	fs.IntVar(&f.width, "width", 0, "viewport width in CSS pixels (default 760)")
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
}

func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	fs := newFlagSet("serve", stderr, printServeUsage)
	f := &serveFlags{}
	fs.StringVar(&f.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// stylesFlags holds flags for the styles command.
type stylesFlags struct {
	common commonFlags
}

func parseStylesFlags(args []string, stderr io.Writer) (*stylesFlags, []string, error) {
	fs := newFlagSet("styles", stderr, printStylesUsage)
	f := &stylesFlags{}
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
