package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/hints"
	"github.com/alnah/go-md2wechat/internal/logging"
	"github.com/alnah/go-md2wechat/internal/prefs"
	"github.com/alnah/go-md2wechat/internal/profiles"
	"github.com/alnah/go-md2wechat/internal/upload"
)

// app bundles what a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	conv    *md2wechat.Converter
	closers []func() error
}

// appOptions adjusts the converter setup for one command.
type appOptions struct {
	// outDir forces file clipboard output into a directory.
	outDir string
	// noClipboard makes exports return the payload only.
	noClipboard bool
	// snapshotWidth overrides the snapshot viewport width.
	snapshotWidth int
}

// newApp loads configuration, builds the logger and creates the converter.
// Call Close when done.
func newApp(ctx context.Context, common commonFlags, opts appOptions, env *Environment) (*app, error) {
	cfg, err := loadConfig(common.config, env.Getenv)
	if err != nil {
		return nil, err
	}
	if common.style != "" {
		cfg.Style.Default = common.style
	}

	logger, err := newLogger(cfg.Log, common)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	a := &app{cfg: cfg, logger: logger}

	store, err := a.prefsStore(ctx)
	if err != nil {
		return nil, err
	}

	writer, err := clipboardWriter(cfg.Export, opts, env)
	if err != nil {
		a.Close()
		return nil, err
	}

	options := []md2wechat.Option{
		md2wechat.WithStyle(cfg.Style.Default),
		md2wechat.WithProfilesDir(cfg.Style.ProfilesDir),
		md2wechat.WithFetchRetries(cfg.Export.Retries),
		md2wechat.WithConcurrency(cfg.Export.Concurrency),
		md2wechat.WithImageHosts(newHost(cfg.Upload.Primary), newHost(cfg.Upload.Secondary)),
		md2wechat.WithMaxUploadSize(cfg.Upload.MaxSize),
		md2wechat.WithPrefsStore(store),
		md2wechat.WithLogger(logger),
		md2wechat.WithSnapshotWidth(opts.snapshotWidth),
	}
	if d := cfg.Export.FetchTimeout.Std(); d > 0 {
		options = append(options, md2wechat.WithFetchTimeout(d))
	}
	if writer != nil {
		options = append(options, md2wechat.WithClipboard(writer))
	}

	conv, err := md2wechat.NewConverter(options...)
	if err != nil {
		a.Close()
		if errors.Is(err, md2wechat.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(availableStyles(cfg.Style.ProfilesDir)))
		}
		return nil, err
	}
	a.conv = conv
	a.closers = append(a.closers, conv.Close)
	return a, nil
}

// Close releases the converter and any store connection.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("cleanup failed", "error", err.Error())
		}
	}
	a.closers = nil
}

// loadConfig reads the config named by the flag or MD2WECHAT_CONFIG, or
// returns the defaults when neither is set. Environment overrides apply last.
func loadConfig(name string, getenv func(string) string) (*config.Config, error) {
	if name == "" {
		name = strings.TrimSpace(getenv(config.EnvConfig))
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				var searched []string
				if !fileutil.IsFilePath(name) {
					searched = config.SearchPaths(name)
				}
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(searched))
			}
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the go-logger provider. --verbose and --quiet override
// the configured level.
func newLogger(cfg config.LogConfig, common commonFlags) (logging.Logger, error) {
	level := cfg.Level
	switch {
	case common.verbose:
		level = "debug"
	case common.quiet:
		level = "error"
	}
	provider, err := logging.NewProvider(logging.Config{Level: level, Format: cfg.Format, AddSource: common.verbose})
	if err != nil {
		return nil, err
	}
	return provider.GetLogger("md2wechat"), nil
}

// prefsStore opens the configured preference backend.
func (a *app) prefsStore(ctx context.Context) (prefs.Store, error) {
	p := a.cfg.Prefs
	switch p.Backend {
	case "memory":
		return &prefs.MemoryStore{}, nil
	case "redis":
		client, err := prefs.DialRedis(ctx, p.RedisAddr, p.RedisPassword, p.RedisDB)
		if err != nil {
			a.logger.Warn("redis unreachable, starred styles are not saved", "error", err.Error())
			return &prefs.MemoryStore{}, nil
		}
		a.closers = append(a.closers, client.Close)
		return prefs.NewRedisStore(client, p.RedisPrefix), nil
	default:
		path := p.Path
		if path == "" {
			var err error
			if path, err = prefs.DefaultFilePath(); err != nil {
				a.logger.Warn("no user config dir, starred styles are not saved", "error", err.Error())
				return &prefs.MemoryStore{}, nil
			}
		}
		return prefs.NewFileStore(path), nil
	}
}

// clipboardWriter selects where exports go. An explicit outDir always
// writes files; "auto" falls back to files when no clipboard tool exists.
func clipboardWriter(cfg config.ExportConfig, opts appOptions, env *Environment) (clipboard.Writer, error) {
	if opts.noClipboard {
		return nil, nil
	}
	if env.Clipboard != nil {
		return env.Clipboard, nil
	}
	if opts.outDir != "" {
		return clipboard.FileWriter{Dir: opts.outDir}, nil
	}

	fileWriter := clipboard.FileWriter{Dir: cfg.OutputDir}
	switch cfg.Clipboard {
	case "none":
		return nil, nil
	case "file":
		return fileWriter, nil
	case "command":
		w, err := clipboard.NewCommandWriter()
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, hints.ForClipboard())
		}
		return w, nil
	default:
		w, err := clipboard.NewCommandWriter()
		if err != nil {
			return fileWriter, nil
		}
		return w, nil
	}
}

// newHost maps a configured host to an upload host. Retries counts extra
// attempts after the first.
func newHost(hc *config.HostConfig) md2wechat.ImageHost {
	if hc == nil {
		return nil
	}
	return upload.NewHTTPHost(upload.HostConfig{
		Name:      hc.Name,
		Endpoint:  hc.Endpoint,
		FileField: hc.FileField,
		URLPath:   hc.URLPath,
		Fields:    hc.Fields,
		Headers:   hc.Headers,
		Timeout:   hc.Timeout.Std(),
		Attempts:  hc.Retries + 1,
	})
}

// availableStyles lists style keys for error hints. Failures give none.
func availableStyles(profilesDir string) []string {
	resolver, err := profiles.NewResolver(profilesDir)
	if err != nil {
		return nil
	}
	keys, err := resolver.Keys()
	if err != nil {
		return nil
	}
	return keys
}
