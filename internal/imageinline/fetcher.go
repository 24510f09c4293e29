package imageinline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"

	"github.com/alnah/go-md2wechat/internal/pipeline"
)

// Defaults for HTTPFetcher.
const (
	DefaultFetchTimeout = 15 * time.Second
	DefaultAttempts     = 3
	DefaultRetryDelay   = 200 * time.Millisecond
	DefaultMaxBytes     = 10 << 20
)

// Fetcher retrieves image bytes for a source.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (data []byte, mediaType string, err error)
}

// statusError is a non-2xx response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.code, http.StatusText(e.code))
}

// retryable reports whether a failed fetch may succeed on another attempt.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusRequestTimeout || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, ErrImageTooLarge) && !errors.Is(err, ErrNotImage) &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// HTTPFetcher fetches http(s) and file:// sources. Remote fetches go
// through resty and are retried with exponential backoff on network errors,
// 5xx, 408 and 429.
type HTTPFetcher struct {
	client   *resty.Client
	attempts uint
	delay    time.Duration
	maxBytes int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.SetTimeout(d)
		}
	}
}

// WithAttempts sets the total number of attempts per image (minimum 1).
func WithAttempts(n uint) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithRetryDelay sets the base backoff delay.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d >= 0 {
			f.delay = d
		}
	}
}

// WithMaxBytes caps the size of one image.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests, proxies).
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			timeout := f.client.GetClient().Timeout
			f.client = resty.NewWithClient(c)
			if timeout > 0 {
				f.client.SetTimeout(timeout)
			}
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:   resty.New().SetTimeout(DefaultFetchTimeout),
		attempts: DefaultAttempts,
		delay:    DefaultRetryDelay,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes and image media type of src.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, string, error) {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "file://"):
		return f.fetchFile(src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return f.fetchRemote(ctx, src)
	case strings.HasPrefix(lower, "//"):
		return f.fetchRemote(ctx, "https:"+src)
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}
}

func (f *HTTPFetcher) fetchRemote(ctx context.Context, src string) ([]byte, string, error) {
	var (
		data     []byte
		declared string
	)
	err := retry.Do(
		func() error {
			resp, err := f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(src)
			if err != nil {
				return err
			}
			body := resp.RawBody()
			defer body.Close()

			if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
				return &statusError{code: resp.StatusCode()}
			}
			b, err := io.ReadAll(io.LimitReader(body, f.maxBytes+1))
			if err != nil {
				return err
			}
			if int64(len(b)) > f.maxBytes {
				return fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, f.maxBytes)
			}
			data, declared = b, resp.Header().Get("Content-Type")
			return nil
		},
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryable),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, "", err
	}
	return f.classify(data, declared)
}

func (f *HTTPFetcher) fetchFile(src string) ([]byte, string, error) {
	path, ok := pipeline.FileURLToPath(src)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedSource, src)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > f.maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, info.Size())
	}
	data, err := os.ReadFile(path) // #nosec G304 -- resolved under the source directory
	if err != nil {
		return nil, "", err
	}
	return f.classify(data, "")
}

func (f *HTTPFetcher) classify(data []byte, declared string) ([]byte, string, error) {
	mediaType, ok := ImageType(declared, data)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrNotImage, mediaType)
	}
	return data, mediaType, nil
}

// Compile-time interface check.
var _ Fetcher = (*HTTPFetcher)(nil)
