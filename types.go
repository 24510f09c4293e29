package md2wechat

import (
	"github.com/alnah/go-md2wechat/internal/imageinline"
	"github.com/alnah/go-md2wechat/internal/notify"
	"github.com/alnah/go-md2wechat/internal/paste"
	"github.com/alnah/go-md2wechat/internal/upload"
)

// Input is one document to render or export.
type Input struct {
	Markdown string
	// Style is a profile key; empty selects the converter's default style.
	Style string
	// SourceDir resolves relative image paths. Empty leaves them as written.
	SourceDir string
}

// RenderResult is the styled preview of a document.
type RenderResult struct {
	HTML  string
	Style string
}

// ImageTally counts the images of one export.
type ImageTally struct {
	Total     int
	Succeeded int
	Failed    int
	// FailedSources lists the sources that kept their original URL.
	FailedSources []string
}

// ExportResult is what an export put on the clipboard.
type ExportResult struct {
	HTML          string
	Text          string
	Images        ImageTally
	Notifications []Notification
}

// Notification is a transient user-facing message.
type Notification = notify.Notification

// Severity classifies a Notification.
type Severity = notify.Severity

// Notification severities.
const (
	SeveritySuccess = notify.Success
	SeverityInfo    = notify.Info
	SeverityWarning = notify.Warning
	SeverityError   = notify.Error
)

// Notifier receives notifications as they are raised.
type Notifier = notify.Notifier

// Paste event types.
type (
	PastePayload   = paste.Payload
	PasteFile      = paste.File
	PasteItem      = paste.Item
	Classification = paste.Classification
	Decision       = paste.Decision
)

// Paste decisions.
const (
	DecisionDefault            = paste.DecisionDefault
	DecisionUploadImage        = paste.DecisionUploadImage
	DecisionPlaceholderWarning = paste.DecisionPlaceholderWarning
	DecisionConvertHTML        = paste.DecisionConvertHTML
	DecisionLocalImageWarning  = paste.DecisionLocalImageWarning
)

// Buffer is the editable Markdown text that pastes and uploads write into.
type Buffer = upload.Buffer

// NewBuffer creates a Buffer holding text.
func NewBuffer(text string) *Buffer { return upload.NewBuffer(text) }

// Image is a file handed to the upload pipeline.
type Image = upload.Image

// ImageHost uploads an image and returns its public URL.
type ImageHost = upload.Host

// ImageFetcher resolves an image source to bytes during export.
type ImageFetcher = imageinline.Fetcher

// PasteResult describes what HandlePaste did with one paste event.
type PasteResult struct {
	Classification Classification
	// Inserted is the text written at the cursor, if any. For image uploads
	// it is the final Markdown image reference.
	Inserted string
	// Upload is set for image pastes.
	Upload        *UploadResult
	Notifications []Notification
}

// UploadResult describes one image upload.
type UploadResult struct {
	// Source is "primary", "secondary" or "embedded".
	Source        string
	URL           string
	Markdown      string
	Errors        []error
	Notifications []Notification
}

// StyleInfo describes one style profile.
type StyleInfo struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Starred bool   `json:"starred"`
}
