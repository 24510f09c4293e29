package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-md2wechat/internal/logging"
	"github.com/alnah/go-md2wechat/internal/notify"
)

// DefaultMaxBytes is the upload size ceiling.
const DefaultMaxBytes = 5 << 20

// Source tells where the final image reference points.
type Source string

// Upload outcomes.
const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceEmbedded  Source = "embedded"
)

// Outcome describes a finished upload.
type Outcome struct {
	Handle   Handle
	Source   Source
	URL      string
	Markdown string
	// Errors holds the host failures that led to a fallback.
	Errors []error
}

// Pipeline uploads images into a Buffer with a primary host, an optional
// secondary host and a base64 embedding fallback.
type Pipeline struct {
	primary   Host
	secondary Host
	maxBytes  int64
	logger    logging.Logger
	notifier  notify.Notifier
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSecondary sets the host tried after a network failure of the primary.
func WithSecondary(h Host) Option {
	return func(p *Pipeline) { p.secondary = h }
}

// WithMaxBytes overrides the size ceiling.
func WithMaxBytes(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNoOp(l) }
}

// WithNotifier sets where user-facing messages go.
func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// NewPipeline creates a Pipeline. A nil primary host means every image is
// embedded.
func NewPipeline(primary Host, opts ...Option) *Pipeline {
	p := &Pipeline{
		primary:  primary,
		maxBytes: DefaultMaxBytes,
		logger:   logging.NoOp(),
		notifier: notify.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Validate checks the type and size of img and returns its media type.
func (p *Pipeline) Validate(img Image) (string, error) {
	mediaType, ok := imageType(img)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, mediaType)
	}
	if int64(len(img.Data)) > p.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(img.Data), p.maxBytes)
	}
	return mediaType, nil
}

// Begin validates img and inserts its placeholder at pos. Rejected images
// leave the buffer untouched.
func (p *Pipeline) Begin(buf *Buffer, pos int, img Image) (Handle, error) {
	if _, err := p.Validate(img); err != nil {
		notify.Send(p.notifier, notify.Error, p.rejectMessage(err))
		return "", err
	}
	return buf.InsertPlaceholder(pos, PlaceholderText(DisplayName(img.Name))), nil
}

// Finish uploads img and resolves the placeholder of h. It always resolves
// the placeholder; host failures only change where the image points.
func (p *Pipeline) Finish(ctx context.Context, buf *Buffer, h Handle, img Image) Outcome {
	name := DisplayName(img.Name)
	out := Outcome{Handle: h}

	for _, step := range []struct {
		host   Host
		source Source
	}{{p.primary, SourcePrimary}, {p.secondary, SourceSecondary}} {
		if step.host == nil {
			continue
		}
		if len(out.Errors) > 0 && !IsNetworkError(out.Errors[len(out.Errors)-1]) {
			break
		}
		url, err := step.host.Upload(ctx, img)
		if err == nil {
			out.Source, out.URL = step.source, url
			out.Markdown = ImageMarkdown(name, url)
			p.logger.Debug("image uploaded", "host", step.host.Name(), "url", url)
			break
		}
		out.Errors = append(out.Errors, err)
		p.logger.Warn("image upload failed", "host", step.host.Name(), "error", err.Error())
	}

	if out.Source == "" {
		mediaType, _ := imageType(img)
		out.Source = SourceEmbedded
		out.Markdown = ImageMarkdown(name, "data:"+mediaType+";base64,"+base64.StdEncoding.EncodeToString(img.Data))
		notify.Send(p.notifier, notify.Warning, "Upload failed, image embedded as base64; this may slow the editor down")
	} else {
		notify.Send(p.notifier, notify.Success, "Image uploaded")
	}

	if !buf.Resolve(h, out.Markdown) {
		p.logger.Warn("upload placeholder no longer present", "handle", string(h))
	}
	return out
}

// Upload runs Begin and Finish.
func (p *Pipeline) Upload(ctx context.Context, buf *Buffer, pos int, img Image) (Outcome, error) {
	h, err := p.Begin(buf, pos, img)
	if err != nil {
		return Outcome{}, err
	}
	return p.Finish(ctx, buf, h, img), nil
}

// imageType prefers a declared image type and sniffs otherwise.
func imageType(img Image) (string, bool) {
	declared := strings.ToLower(strings.TrimSpace(img.Type))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if strings.HasPrefix(declared, "image/") {
		return declared, true
	}
	detected := mimetype.Detect(img.Data)
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return m.String(), true
		}
	}
	if declared != "" {
		return declared, false
	}
	return detected.String(), false
}

// DisplayName is the file name without directory or extension, or "image".
func DisplayName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}

// ImageMarkdown formats an image reference.
func ImageMarkdown(name, src string) string {
	return "![" + name + "](" + src + ")"
}

func (p *Pipeline) rejectMessage(err error) string {
	if errors.Is(err, ErrImageTooLarge) {
		return fmt.Sprintf("Image is larger than %dMB", p.maxBytes>>20)
	}
	return "Only image files can be uploaded"
}
