package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2wechat/internal/snapshot"
	"github.com/alnah/go-md2wechat/internal/watch"
)

// runRender writes the styled preview HTML of a document.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.watch && (len(positional) != 1 || positional[0] == "-") {
		return fmt.Errorf("%w: --watch needs a markdown file", ErrUsage)
	}

	a, err := newApp(ctx, flags.common, appOptions{}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	render := func(ctx context.Context) error {
		doc, err := readDocument(positional, env)
		if err != nil {
			return err
		}
		res, err := a.conv.Render(ctx, doc.input(""))
		if err != nil {
			return err
		}
		html := res.HTML
		if flags.page {
			html = snapshot.Document(html)
		}
		if err := writeOutput(flags.output, []byte(html), env); err != nil {
			return err
		}
		if flags.output != "" && !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "rendered %s (%s)\n", flags.output, res.Style)
		}
		return nil
	}

	if err := render(ctx); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "watching %s, press Ctrl+C to stop\n", positional[0])
	}
	return watch.New(positional[0], watch.WithLogger(a.logger)).Run(ctx, render)
}
