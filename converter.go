package md2wechat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/doctree"
	"github.com/alnah/go-md2wechat/internal/imageinline"
	"github.com/alnah/go-md2wechat/internal/logging"
	"github.com/alnah/go-md2wechat/internal/notify"
	"github.com/alnah/go-md2wechat/internal/paste"
	"github.com/alnah/go-md2wechat/internal/pipeline"
	"github.com/alnah/go-md2wechat/internal/prefs"
	"github.com/alnah/go-md2wechat/internal/profiles"
	"github.com/alnah/go-md2wechat/internal/snapshot"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownNormalizer = pipeline.ListNormalizer{}
	_ pipeline.HTMLConverter      = (*pipeline.GoldmarkConverter)(nil)
	_ imageinline.Fetcher         = (*imageinline.HTTPFetcher)(nil)
	_ snapshot.Capturer           = (*snapshot.Renderer)(nil)
	_ clipboard.Writer            = (*clipboard.MemoryWriter)(nil)
	_ prefs.Store                 = (*prefs.MemoryStore)(nil)
)

// Converter renders Markdown to styled WeChat HTML, exports it to the
// clipboard and handles pastes and image uploads into a Markdown buffer.
// Create with NewConverter and Close when done. A Converter is safe for
// concurrent use.
type Converter struct {
	cfg           converterConfig
	table         *profiles.Table
	normalizer    pipeline.MarkdownNormalizer
	htmlConverter pipeline.HTMLConverter
	fetcher       ImageFetcher
	inliner       *imageinline.Inliner
	markdown      *paste.Converter
	clipboard     clipboard.Writer
	primaryHost   ImageHost
	secondaryHost ImageHost
	prefsStore    prefs.Store
	starred       *prefs.Starred
	logger        logging.Logger
	notifier      Notifier

	capMu    sync.Mutex
	capturer snapshot.Capturer
}

// NewConverter creates a Converter. It loads every style profile up front
// and fails if the default style is unknown or any profile is invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			style:         DefaultStyle,
			fetchTimeout:  defaultFetchTimeout,
			fetchAttempts: imageinline.DefaultAttempts,
			concurrency:   imageinline.DefaultConcurrency,
			snapshotWidth: snapshot.DefaultWidth,
		},
		normalizer: pipeline.ListNormalizer{},
		markdown:   paste.NewConverter(),
		logger:     logging.NoOp(),
		notifier:   notify.Discard,
	}

	for _, opt := range opts {
		opt(c)
	}

	resolver, err := profiles.NewResolver(c.cfg.profilesDir)
	if err != nil {
		return nil, err
	}
	c.table, err = profiles.LoadTable(resolver)
	if err != nil {
		return nil, fmt.Errorf("loading style profiles: %w", err)
	}
	if !c.table.Has(c.cfg.style) {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, c.cfg.style)
	}

	if c.htmlConverter == nil {
		c.htmlConverter = pipeline.NewGoldmarkConverter()
	}
	if c.fetcher == nil {
		c.fetcher = imageinline.NewHTTPFetcher(
			imageinline.WithTimeout(c.cfg.fetchTimeout),
			imageinline.WithAttempts(c.cfg.fetchAttempts),
		)
	}
	c.inliner = imageinline.NewInliner(c.fetcher,
		imageinline.WithConcurrency(c.cfg.concurrency),
		imageinline.WithLogger(c.logger),
	)
	if c.prefsStore == nil {
		c.prefsStore = &prefs.MemoryStore{}
	}
	c.starred = prefs.NewStarred(c.prefsStore, c.logger)

	return c, nil
}

// Render normalizes, renders and styles a document for preview.
// Whitespace-only Markdown renders to an empty preview.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Render(ctx context.Context, input Input) (result *RenderResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	tree, profile, err := c.renderTree(ctx, input)
	if err != nil {
		return nil, err
	}
	out := &RenderResult{Style: profile.Key}
	if tree == nil {
		return out, nil
	}
	out.HTML, err = tree.Render()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return out, nil
}

// renderTree returns the styled preview tree, or a nil tree for an empty
// document.
func (c *Converter) renderTree(ctx context.Context, input Input) (*doctree.Tree, profiles.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, profiles.Profile{}, err
	}

	profile, err := c.profile(input.Style)
	if err != nil {
		return nil, profiles.Profile{}, err
	}

	md := c.normalizer.NormalizeMarkdown(ctx, input.Markdown)
	if strings.TrimSpace(md) == "" {
		return nil, profile, nil
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, profile, fmt.Errorf("converting to HTML: %w", err)
	}

	tree, err := doctree.Parse(fragment)
	if err != nil {
		return nil, profile, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	// Relative image paths become file:// URLs so export can inline them.
	if input.SourceDir != "" {
		if _, err := pipeline.ResolveImagePaths(tree, input.SourceDir); err != nil {
			return nil, profile, fmt.Errorf("resolving image paths: %w", err)
		}
	}

	if _, err := pipeline.StyleArticle(tree, profile); err != nil {
		return nil, profile, err
	}
	return tree, profile, nil
}

func (c *Converter) profile(key string) (profiles.Profile, error) {
	if key == "" {
		key = c.cfg.style
	}
	return c.table.Get(key)
}

// Export renders a document, transforms the preview for the paste target and
// writes it to the clipboard as HTML and plain text.
//
// Image fetch failures do not fail the export: those images keep their
// original source and are reported in the result and its notifications.
// An empty document returns ErrNothingToCopy and writes nothing.
func (c *Converter) Export(ctx context.Context, input Input) (result *ExportResult, err error) {
	rec := &notify.Recorder{}
	n := notify.Multi{c.notifier, rec}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrExport, r)
		}
		if err != nil && result == nil {
			result = &ExportResult{}
		}
		if result != nil {
			result.Notifications = rec.All()
		}
	}()

	tree, profile, err := c.renderTree(ctx, input)
	if err != nil {
		notify.Send(n, notify.Error, "Export failed")
		return nil, err
	}
	if isEmptyPreview(tree) {
		notify.Send(n, notify.Error, "Nothing to copy")
		return nil, ErrNothingToCopy
	}

	payload, tally, err := c.exportTree(ctx, tree.Clone(), profile, n)
	if err != nil {
		notify.Send(n, notify.Error, "Export failed")
		return nil, err
	}
	result = &ExportResult{HTML: payload.HTML, Text: payload.Text, Images: tally}

	if c.clipboard != nil {
		if err := c.clipboard.Write(ctx, payload); err != nil {
			c.logger.Error("clipboard write failed", "error", err.Error())
			notify.Send(n, notify.Error, "Copy failed")
			return result, fmt.Errorf("%w: %w", ErrExport, err)
		}
	}
	notify.Send(n, notify.Success, "Copied, paste it into the WeChat editor")
	return result, nil
}

// isEmptyPreview reports whether a preview has neither text nor images.
func isEmptyPreview(t *doctree.Tree) bool {
	if t == nil {
		return true
	}
	return strings.TrimSpace(t.Text(t.Root())) == "" && t.FindFirst(t.Root(), "img") == doctree.NoNode
}

// exportTree runs the export transforms on t in order: grids to tables,
// image inlining, section wrap, code block simplification, list flattening.
func (c *Converter) exportTree(ctx context.Context, t *doctree.Tree, p profiles.Profile, n Notifier) (clipboard.Payload, ImageTally, error) {
	var tally ImageTally

	if grids := pipeline.GridsToTables(t); grids > 0 {
		c.logger.Debug("grids converted to tables", "count", grids)
	}

	if imgs := len(t.FindAll(t.Root(), "img")); imgs > 0 {
		notify.Send(n, notify.Info, fmt.Sprintf("Processing %d images", imgs))
		res := c.inliner.InlineAll(ctx, t)
		tally = ImageTally{Total: res.Total, Succeeded: res.Succeeded, Failed: res.Failed}
		for _, f := range res.Failures {
			tally.FailedSources = append(tally.FailedSources, f.Src)
		}
		if res.Failed > 0 {
			notify.Send(n, notify.Error, fmt.Sprintf("%d images succeeded, %d failed (kept original links)", res.Succeeded, res.Failed))
		}
	}

	pipeline.WrapSection(t, p.Container)
	pipeline.SimplifyCodeBlocks(t)
	pipeline.FlattenListItems(t)

	html, err := t.Render()
	if err != nil {
		return clipboard.Payload{}, tally, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return clipboard.Payload{HTML: html, Text: t.Text(t.Root())}, tally, nil
}

// Snapshot renders a document and captures the preview as a PNG image.
func (c *Converter) Snapshot(ctx context.Context, input Input) ([]byte, error) {
	res, err := c.Render(ctx, input)
	if err != nil {
		return nil, err
	}
	if res.HTML == "" {
		return nil, ErrNothingToCopy
	}

	c.capMu.Lock()
	if c.capturer == nil {
		c.capturer = snapshot.New(
			snapshot.WithWidth(c.cfg.snapshotWidth),
			snapshot.WithLogger(c.logger),
		)
	}
	capturer := c.capturer
	c.capMu.Unlock()

	return capturer.Capture(ctx, res.HTML)
}

// Close releases the browser started by Snapshot, if any.
func (c *Converter) Close() error {
	c.capMu.Lock()
	defer c.capMu.Unlock()
	if c.capturer == nil {
		return nil
	}
	err := c.capturer.Close()
	c.capturer = nil
	return err
}
