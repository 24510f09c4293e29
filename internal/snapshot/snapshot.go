// Package snapshot renders a styled preview to a PNG "long image" with
// headless Chrome, for hosts that only accept pictures.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/logging"
	"github.com/alnah/go-md2wechat/internal/process"
)

// Sentinel errors for snapshot rendering.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrCapture        = errors.New("failed to capture screenshot")
	ErrEmptyHTML      = errors.New("nothing to capture")
)

// Defaults for Renderer.
const (
	DefaultTimeout = 30 * time.Second
	DefaultWidth   = 760
	DefaultScale   = 2.0
)

// Capturer turns HTML into PNG bytes.
type Capturer interface {
	Capture(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// Renderer implements Capturer with go-rod. The browser starts on first use
// and is reused until Close. Rod downloads Chromium if none is found.
type Renderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	width    int
	scale    float64
	logger   logging.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout bounds page load when the context has no deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithWidth sets the viewport width in CSS pixels.
func WithWidth(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.width = px
		}
	}
}

// WithScale sets the device scale factor.
func WithScale(f float64) Option {
	return func(r *Renderer) {
		if f > 0 {
			r.scale = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Renderer) { r.logger = logging.OrNoOp(l) }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		timeout: DefaultTimeout,
		width:   DefaultWidth,
		scale:   DefaultScale,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ensureBrowser lazily launches and connects to the browser.
func (r *Renderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	// Pre-installed browser for Docker/containerized environments.
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser, r.launcher = browser, l
	r.logger.Debug("browser started", "pid", l.PID())
	return nil
}

// Capture loads html in a page and returns a full-page PNG screenshot.
func (r *Renderer) Capture(ctx context.Context, html string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if html == "" {
		return nil, ErrEmptyHTML
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(Document(html), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.width,
		Height:            800,
		DeviceScaleFactor: r.scale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: viewport: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := page.Timeout(timeout).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return png, nil
}

// Close releases the browser and kills its process tree.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launcher != nil {
		pid := r.launcher.PID()
		r.launcher.Kill()
		_ = process.KillGroup(pid)
	}
	r.browser, r.launcher = nil, nil
	return err
}

// Document wraps a styled fragment in a standalone HTML page.
func Document(fragment string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8">` +
		`<meta name="viewport" content="width=device-width, initial-scale=1">` +
		`<style>html,body{margin:0;padding:0;background:#fff}</style></head><body>` +
		fragment + `</body></html>`
}

// Compile-time interface check.
var _ Capturer = (*Renderer)(nil)
