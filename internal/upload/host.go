package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Image is a file to upload.
type Image struct {
	Name string
	Type string
	Data []byte
}

// Host stores an image and returns its public URL.
type Host interface {
	Name() string
	Upload(ctx context.Context, img Image) (string, error)
}

// HostConfig describes a multipart image host.
type HostConfig struct {
	// Name labels the host in logs and notifications.
	Name string
	// Endpoint receives the multipart POST.
	Endpoint string
	// FileField is the form field carrying the file. Default "file".
	FileField string
	// URLPath is the gjson path of the URL in the JSON response.
	// Default "data.url".
	URLPath string
	// Fields are extra form fields.
	Fields map[string]string
	// Headers are extra request headers.
	Headers map[string]string
	// Timeout bounds one request. Default 30s.
	Timeout time.Duration
	// Attempts is the total number of tries. Default 2.
	Attempts int
}

// Defaults for HostConfig.
const (
	DefaultFileField    = "file"
	DefaultURLPath      = "data.url"
	DefaultHostTimeout  = 30 * time.Second
	DefaultHostAttempts = 2
)

// HostError is a non-2xx host response.
type HostError struct {
	Host   string
	Status int
	Body   string
}

func (e *HostError) Error() string {
	msg := fmt.Sprintf("%s: HTTP %d", e.Host, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// HTTPHost uploads images with a multipart POST.
type HTTPHost struct {
	cfg    HostConfig
	client *resty.Client
}

// NewHTTPHost creates an HTTPHost, filling defaults in cfg.
func NewHTTPHost(cfg HostConfig) *HTTPHost {
	if cfg.FileField == "" {
		cfg.FileField = DefaultFileField
	}
	if cfg.URLPath == "" {
		cfg.URLPath = DefaultURLPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultHostTimeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultHostAttempts
	}
	if cfg.Name == "" {
		cfg.Name = cfg.Endpoint
	}
	return &HTTPHost{cfg: cfg, client: resty.New().SetTimeout(cfg.Timeout)}
}

// Name returns the host label.
func (h *HTTPHost) Name() string { return h.cfg.Name }

// Upload posts img and extracts the URL from the JSON response. Network
// errors, 5xx, 408 and 429 are retried with exponential backoff.
func (h *HTTPHost) Upload(ctx context.Context, img Image) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(h.cfg.Attempts-1)), ctx)

	var url string
	err := backoff.Retry(func() error {
		u, err := h.post(ctx, img)
		if err != nil {
			if !IsNetworkError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		url = u
		return nil
	}, policy)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return url, nil
}

func (h *HTTPHost) post(ctx context.Context, img Image) (string, error) {
	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.cfg.Headers).
		SetFormData(h.cfg.Fields).
		SetFileReader(h.cfg.FileField, img.Name, bytes.NewReader(img.Data))

	resp, err := req.Post(h.cfg.Endpoint)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", &HostError{Host: h.cfg.Name, Status: resp.StatusCode(), Body: snippet(resp.String())}
	}
	url := strings.TrimSpace(gjson.GetBytes(resp.Body(), h.cfg.URLPath).String())
	if url == "" {
		return "", fmt.Errorf("%w: %s at %q", ErrNoURL, h.cfg.Name, h.cfg.URLPath)
	}
	return url, nil
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}

// IsNetworkError reports whether err looks like a transport failure rather
// than a rejection of the image. Host responses count when they are 5xx,
// 408 or 429; a response without a URL never does.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var he *HostError
	if errors.As(err, &he) {
		return he.Status >= 500 || he.Status == http.StatusRequestTimeout || he.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, ErrNoURL) {
		return false
	}
	// Transport errors from the client, including timeouts.
	return true
}

// Compile-time interface check.
var _ Host = (*HTTPHost)(nil)
