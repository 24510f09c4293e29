package md2wechat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alnah/go-md2wechat/internal/upload"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeHost struct {
	name string
	url  string
	err  error
}

func (h fakeHost) Name() string { return h.name }

func (h fakeHost) Upload(context.Context, Image) (string, error) {
	return h.url, h.err
}

// ---------------------------------------------------------------------------
// TestHandlePaste - Paste routing into a buffer
// ---------------------------------------------------------------------------

func TestHandlePaste(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conv := newTestConverter(t, WithImageHosts(fakeHost{name: "img", url: "https://cdn.example.com/a.png"}, nil))

	tests := []struct {
		name       string
		payload    PastePayload
		decision   Decision
		wantBuffer string
		wantNote   Severity
	}{
		{
			name:       "image file is uploaded",
			payload:    PastePayload{Files: []PasteFile{{Name: "shot.png", Type: "image/png", Data: pngBytes}}},
			decision:   DecisionUploadImage,
			wantBuffer: "ab![shot](https://cdn.example.com/a.png)cd",
			wantNote:   SeveritySuccess,
		},
		{
			name:       "placeholder text is refused",
			payload:    PastePayload{Text: "[Image #1]"},
			decision:   DecisionPlaceholderWarning,
			wantBuffer: "abcd",
			wantNote:   SeverityWarning,
		},
		{
			name:       "markdown text pasted as is",
			payload:    PastePayload{Text: "# T\n\n**b**", HTML: "<h1>T</h1>"},
			decision:   DecisionDefault,
			wantBuffer: "ab# T\n\n**b**cd",
		},
		{
			name:       "rich html converted",
			payload:    PastePayload{HTML: "<h2>Head</h2><p>Some <strong>bold</strong></p>", Text: "Head Some bold"},
			decision:   DecisionConvertHTML,
			wantBuffer: "ab## Head\n\nSome **bold**cd",
		},
		{
			name:       "code export pasted as text",
			payload:    PastePayload{HTML: "<pre>x := 1</pre>", Text: "x := 1"},
			decision:   DecisionDefault,
			wantBuffer: "abx := 1cd",
		},
		{
			name:       "local images warn and paste text",
			payload:    PastePayload{HTML: `<p>hi</p><img src="file:///tmp/a.png">`, Text: "hi"},
			decision:   DecisionLocalImageWarning,
			wantBuffer: "abhicd",
			wantNote:   SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := NewBuffer("abcd")
			res, err := conv.HandlePaste(ctx, buf, 2, tt.payload)
			if err != nil {
				t.Fatalf("HandlePaste() error: %v", err)
			}
			if res.Classification.Decision != tt.decision {
				t.Errorf("Decision = %v, want %v", res.Classification.Decision, tt.decision)
			}
			if got := buf.String(); got != tt.wantBuffer {
				t.Errorf("buffer = %q, want %q", got, tt.wantBuffer)
			}
			if tt.wantNote != "" && !hasNotification(res.Notifications, tt.wantNote, "") {
				t.Errorf("no %s notification in %+v", tt.wantNote, res.Notifications)
			}
		})
	}
}

func TestHandlePaste_RejectedImage(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithMaxUploadSize(4))
	buf := NewBuffer("text")

	res, err := conv.HandlePaste(context.Background(), buf, 0, PastePayload{
		Files: []PasteFile{{Name: "big.png", Type: "image/png", Data: pngBytes}},
	})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("error = %v, want ErrImageTooLarge", err)
	}
	if buf.String() != "text" {
		t.Errorf("buffer changed to %q", buf.String())
	}
	if res.Upload != nil || !hasNotification(res.Notifications, SeverityError, "larger than") {
		t.Errorf("result = %+v", res)
	}
}

// ---------------------------------------------------------------------------
// TestUpload - Host fallback chain
// ---------------------------------------------------------------------------

func TestUpload(t *testing.T) {
	t.Parallel()

	down := fakeHost{name: "down", err: &upload.HostError{Host: "down", Status: http.StatusBadGateway}}
	img := Image{Name: "photo.png", Type: "image/png", Data: pngBytes}

	tests := []struct {
		name      string
		primary   ImageHost
		secondary ImageHost
		source    string
		prefix    string
	}{
		{"primary", fakeHost{name: "a", url: "https://a/x.png"}, nil, "primary", "![photo](https://a/x.png)"},
		{"secondary after network failure", down, fakeHost{name: "b", url: "https://b/x.png"}, "secondary", "![photo](https://b/x.png)"},
		{"both fail embed", down, down, "embedded", "![photo](data:image/png;base64,"},
		{"no hosts embed", nil, nil, "embedded", "![photo](data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, WithImageHosts(tt.primary, tt.secondary))
			buf := NewBuffer("")
			res, err := conv.Upload(context.Background(), buf, 0, img)
			if err != nil {
				t.Fatalf("Upload() error: %v", err)
			}
			if res.Source != tt.source {
				t.Errorf("Source = %q, want %q", res.Source, tt.source)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) || strings.Contains(buf.String(), "Uploading") {
				t.Errorf("buffer = %q, want prefix %q", buf.String(), tt.prefix)
			}
			if buf.Pending() != 0 {
				t.Errorf("Pending() = %d after upload", buf.Pending())
			}
		})
	}
}

func TestUpload_HTTPHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"url":"https://cdn.example.com/u.png"}}`))
	}))
	t.Cleanup(srv.Close)

	host := upload.NewHTTPHost(upload.HostConfig{Name: "test", Endpoint: srv.URL})
	conv := newTestConverter(t, WithImageHosts(host, nil))

	buf := NewBuffer("see ")
	res, err := conv.Upload(context.Background(), buf, 4, Image{Name: "u.png", Data: pngBytes})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if res.URL != "https://cdn.example.com/u.png" || buf.String() != "see ![u](https://cdn.example.com/u.png)" {
		t.Errorf("Upload() = %+v, buffer %q", res, buf.String())
	}
}

func TestClassifyPaste(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)
	got := conv.ClassifyPaste(PastePayload{Text: "# Title\n\n**bold**"})
	if got.Decision != DecisionDefault || got.Score.Count < 2 {
		t.Errorf("ClassifyPaste() = %+v", got)
	}
}
