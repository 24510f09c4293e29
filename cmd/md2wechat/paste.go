package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// maxImageRead bounds image files read from disk. The upload pipeline
// enforces the configured ceiling; this only stops runaway reads.
const maxImageRead = 64 << 20

// runPaste applies one paste event, given as files, to a Markdown buffer.
func runPaste(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePasteFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}
	if flags.html == "" && flags.text == "" && flags.image == "" {
		return fmt.Errorf("%w: paste needs --html, --text or --image", ErrUsage)
	}

	payload, err := readPastePayload(flags, env)
	if err != nil {
		return err
	}
	buf, cursor, err := openBuffer(flags.buffer)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, flags.common, appOptions{}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.conv.HandlePaste(ctx, buf, cursor, payload)
	if res != nil {
		printNotifications(env.Stderr, res.Notifications, flags.common.quiet)
		if flags.common.verbose {
			fmt.Fprintf(env.Stderr, "paste: %s via %s\n", res.Classification.Decision, res.Classification.Rule)
		}
	}
	if err != nil {
		return err
	}
	return saveBuffer(flags.buffer, buf, env)
}

func readPastePayload(flags *pasteFlags, env *Environment) (md2wechat.PastePayload, error) {
	var p md2wechat.PastePayload

	if flags.html != "" {
		data, err := readTextFile(flags.html, env)
		if err != nil {
			return p, err
		}
		p.HTML = data
	}
	if flags.text != "" {
		data, err := readTextFile(flags.text, env)
		if err != nil {
			return p, err
		}
		p.Text = data
	}
	if flags.image != "" {
		img, err := readImage(flags.image)
		if err != nil {
			return p, err
		}
		p.Files = []md2wechat.PasteFile{{Name: img.Name, Type: img.Type, Data: img.Data}}
	}
	return p, nil
}

// readTextFile reads a paste part from a file or from stdin for "-".
func readTextFile(path string, env *Environment) (string, error) {
	if path == "-" {
		data, err := readLimited(env.Stdin, maxImageRead)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// readImage reads an image file and sniffs its media type.
func readImage(path string) (md2wechat.Image, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return md2wechat.Image{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	defer func() { _ = f.Close() }()

	data, err := readLimited(f, maxImageRead)
	if err != nil {
		return md2wechat.Image{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return md2wechat.Image{
		Name: filepath.Base(path),
		Type: mimetype.Detect(data).String(),
		Data: data,
	}, nil
}

// openBuffer loads the --into file, or an empty buffer. A negative cursor
// means the end of the buffer.
func openBuffer(f bufferFlags) (*md2wechat.Buffer, int, error) {
	text := ""
	if f.into != "" {
		data, err := os.ReadFile(f.into) // #nosec G304 -- user-provided path
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		text = string(data)
	}
	buf := md2wechat.NewBuffer(text)
	cursor := f.cursor
	if cursor < 0 || cursor > buf.Len() {
		cursor = buf.Len()
	}
	return buf, cursor, nil
}

// saveBuffer writes the buffer back to --into, or prints it.
func saveBuffer(f bufferFlags, buf *md2wechat.Buffer, env *Environment) error {
	return writeOutput(f.into, []byte(buf.String()), env)
}

// runUpload uploads image files into a Markdown buffer, one per line.
func runUpload(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseUploadFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: upload needs at least one image file", ErrUsage)
	}

	buf, cursor, err := openBuffer(flags.buffer)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, flags.common, appOptions{}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Upload.Primary == nil && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "note: no image host configured%s\n", hints.ForUploadHost())
	}

	var failed error
	for i, path := range positional {
		img, err := readImage(path)
		if err != nil {
			failed = errors.Join(failed, err)
			continue
		}
		res, err := a.conv.Upload(ctx, buf, cursor, img)
		printNotifications(env.Stderr, res.Notifications, flags.common.quiet)
		if err != nil {
			failed = errors.Join(failed, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stderr, "%s: %s %s\n", path, res.Source, res.URL)
		}
		cursor += len(res.Markdown)
		if i < len(positional)-1 {
			buf.Insert(cursor, "\n")
			cursor++
		}
	}

	if err := saveBuffer(flags.buffer, buf, env); err != nil {
		return errors.Join(failed, err)
	}
	return failed
}
