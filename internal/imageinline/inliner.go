package imageinline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2wechat/internal/doctree"
	"github.com/alnah/go-md2wechat/internal/logging"
)

// DefaultConcurrency bounds simultaneous fetches.
const DefaultConcurrency = 8

// Result tallies one inlining pass.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// Failure records an image that kept its original source.
type Failure struct {
	Src string
	Err error
}

// Inliner replaces image sources with data URIs.
type Inliner struct {
	fetcher     Fetcher
	logger      logging.Logger
	concurrency int
}

// InlinerOption configures an Inliner.
type InlinerOption func(*Inliner)

// WithConcurrency bounds simultaneous fetches (minimum 1).
func WithConcurrency(n int) InlinerOption {
	return func(in *Inliner) {
		if n > 0 {
			in.concurrency = n
		}
	}
}

// WithLogger sets the logger for per-image outcomes.
func WithLogger(l logging.Logger) InlinerOption {
	return func(in *Inliner) {
		in.logger = logging.OrNoOp(l)
	}
}

// NewInliner creates an Inliner using fetcher.
func NewInliner(fetcher Fetcher, opts ...InlinerOption) *Inliner {
	in := &Inliner{
		fetcher:     fetcher,
		logger:      logging.NoOp(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

type outcome struct {
	uri string
	err error
}

// InlineAll resolves every <img> under the root of t. Fetches run
// concurrently; the tree is only written after all of them settle. A
// cancelled context fails the images not yet fetched, never the call.
func (in *Inliner) InlineAll(ctx context.Context, t *doctree.Tree) Result {
	imgs := t.FindAll(t.Root(), "img")
	res := Result{Total: len(imgs)}
	if len(imgs) == 0 {
		return res
	}

	srcs := make([]string, len(imgs))
	outcomes := make([]outcome, len(imgs))

	var g errgroup.Group
	g.SetLimit(in.concurrency)
	for i, img := range imgs {
		src := t.AttrOr(img, "src", "")
		srcs[i] = src
		if IsDataURI(src) {
			outcomes[i] = outcome{uri: src}
			continue
		}
		g.Go(func() error {
			outcomes[i] = in.resolve(ctx, src)
			return nil
		})
	}
	_ = g.Wait() // members never fail the group

	for i, img := range imgs {
		o := outcomes[i]
		if o.err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{Src: srcs[i], Err: o.err})
			in.logger.Warn("image kept original source", "src", srcs[i], "error", o.err.Error())
			continue
		}
		t.SetAttr(img, "src", o.uri)
		res.Succeeded++
	}
	in.logger.Debug("images inlined", "total", res.Total, "succeeded", res.Succeeded, "failed", res.Failed)
	return res
}

func (in *Inliner) resolve(ctx context.Context, src string) outcome {
	if src == "" {
		return outcome{err: fmt.Errorf("%w: empty source", ErrFetchImage)}
	}
	if err := ctx.Err(); err != nil {
		return outcome{err: fmt.Errorf("%w: %s: %w", ErrFetchImage, src, err)}
	}
	data, mediaType, err := in.fetcher.Fetch(ctx, src)
	if err != nil {
		return outcome{err: fmt.Errorf("%w: %s: %w", ErrFetchImage, src, err)}
	}
	return outcome{uri: DataURI(mediaType, data)}
}
