package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// runSnapshot renders a document in a headless browser and saves the
// preview as a PNG image.
func runSnapshot(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSnapshotFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.width < 0 {
		return fmt.Errorf("%w: --width must be positive", ErrUsage)
	}

	doc, err := readDocument(positional, env)
	if err != nil {
		return err
	}
	output := flags.output
	if output == "" {
		if doc.path == "" {
			return fmt.Errorf("%w: --output is required when reading stdin", ErrUsage)
		}
		output = strings.TrimSuffix(doc.path, filepath.Ext(doc.path)) + ".png"
	}

	a, err := newApp(ctx, flags.common, appOptions{snapshotWidth: flags.width}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	png, err := a.conv.Snapshot(ctx, doc.input(""))
	if err != nil {
		return err
	}
	if err := writeOutput(output, png, env); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s\n", output)
	}
	return nil
}
