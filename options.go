package md2wechat

import (
	"time"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/imageinline"
	"github.com/alnah/go-md2wechat/internal/logging"
	"github.com/alnah/go-md2wechat/internal/pipeline"
	"github.com/alnah/go-md2wechat/internal/prefs"
	"github.com/alnah/go-md2wechat/internal/snapshot"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds settings resolved in NewConverter.
type converterConfig struct {
	style         string
	profilesDir   string
	fetchTimeout  time.Duration
	fetchAttempts uint
	concurrency   int
	maxUpload     int64
	snapshotWidth int
}

// Defaults used when no option overrides them.
const (
	DefaultStyle        = "wechat-anthropic"
	defaultFetchTimeout = imageinline.DefaultFetchTimeout
)

// WithStyle sets the default style profile key.
func WithStyle(key string) Option {
	return func(c *Converter) {
		if key != "" {
			c.cfg.style = key
		}
	}
}

// WithProfilesDir adds a directory of YAML style profiles. Its profiles
// override embedded profiles with the same key.
func WithProfilesDir(dir string) Option {
	return func(c *Converter) { c.cfg.profilesDir = dir }
}

// WithFetchTimeout bounds each image fetch during export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithFetchTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2wechat: WithFetchTimeout duration must be positive")
	}
	return func(c *Converter) { c.cfg.fetchTimeout = d }
}

// WithFetchRetries sets how many times a failed image fetch is retried.
func WithFetchRetries(n int) Option {
	return func(c *Converter) {
		if n >= 0 {
			c.cfg.fetchAttempts = uint(n) + 1
		}
	}
}

// WithConcurrency bounds simultaneous image fetches during export.
func WithConcurrency(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.cfg.concurrency = n
		}
	}
}

// WithImageFetcher replaces the HTTP and file fetcher used by export.
func WithImageFetcher(f ImageFetcher) Option {
	return func(c *Converter) { c.fetcher = f }
}

// WithClipboard sets where exports are written. Without it, Export only
// returns the payload.
func WithClipboard(w clipboard.Writer) Option {
	return func(c *Converter) { c.clipboard = w }
}

// WithImageHosts sets the upload hosts. A nil primary embeds every image.
func WithImageHosts(primary, secondary ImageHost) Option {
	return func(c *Converter) {
		c.primaryHost = primary
		c.secondaryHost = secondary
	}
}

// WithMaxUploadSize sets the upload size ceiling in bytes.
func WithMaxUploadSize(n int64) Option {
	return func(c *Converter) {
		if n > 0 {
			c.cfg.maxUpload = n
		}
	}
}

// WithPrefsStore sets where starred styles are kept. The default is an
// in-memory store.
func WithPrefsStore(s prefs.Store) Option {
	return func(c *Converter) { c.prefsStore = s }
}

// WithLogger sets the logger used by every stage.
func WithLogger(l logging.Logger) Option {
	return func(c *Converter) { c.logger = logging.OrNoOp(l) }
}

// WithNotifier receives every notification as it is raised, in addition to
// the copies returned in results.
func WithNotifier(n Notifier) Option {
	return func(c *Converter) { c.notifier = n }
}

// WithSnapshotWidth sets the viewport width of Snapshot in CSS pixels.
func WithSnapshotWidth(px int) Option {
	return func(c *Converter) {
		if px > 0 {
			c.cfg.snapshotWidth = px
		}
	}
}

// withCapturer injects the snapshot renderer (tests).
func withCapturer(s snapshot.Capturer) Option {
	return func(c *Converter) { c.capturer = s }
}

// withHTMLConverter injects the Markdown renderer (tests).
func withHTMLConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) { c.htmlConverter = h }
}
