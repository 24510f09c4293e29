package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-md2wechat/internal/server"
)

// runServe starts the HTTP editor backend until interrupted.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}

	if flags.common.verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Exports return HTML to the client; the host clipboard is not touched.
	a, err := newApp(ctx, flags.common, appOptions{noClipboard: true}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := flags.addr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	srv := server.New(a.conv, server.Config{
		Addr:           addr,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
	}, a.logger)

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "listening on http://%s\n", addr)
	}
	return srv.Run(ctx)
}
