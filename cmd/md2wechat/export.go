package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-md2wechat/internal/hints"
)

// runExport builds the WeChat-ready HTML of a document and puts it on the
// clipboard, or in files with --out.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	doc, err := readDocument(positional, env)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, flags.common, appOptions{outDir: flags.out}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.conv.Export(ctx, doc.input(""))
	if res != nil {
		printNotifications(env.Stderr, res.Notifications, flags.common.quiet)
	}
	if err != nil {
		return err
	}

	if res.Images.Failed > 0 && !flags.common.quiet {
		for _, src := range res.Images.FailedSources {
			fmt.Fprintf(env.Stderr, "  kept link: %s\n", src)
		}
		fmt.Fprintln(env.Stderr, strings.TrimLeft(hints.ForFetchTimeout(), "\n"))
	}
	if flags.out != "" && !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s\n", flags.out)
	}
	return nil
}
