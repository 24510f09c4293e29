package md2wechat

import (
	"errors"

	"github.com/alnah/go-md2wechat/internal/clipboard"
	"github.com/alnah/go-md2wechat/internal/imageinline"
	"github.com/alnah/go-md2wechat/internal/paste"
	"github.com/alnah/go-md2wechat/internal/pipeline"
	"github.com/alnah/go-md2wechat/internal/prefs"
	"github.com/alnah/go-md2wechat/internal/profiles"
	"github.com/alnah/go-md2wechat/internal/snapshot"
	"github.com/alnah/go-md2wechat/internal/upload"
)

// Sentinel errors for library operations.
var (
	ErrNothingToCopy  = errors.New("nothing to copy")
	ErrExport         = errors.New("export failed")
	ErrHTMLConversion = pipeline.ErrHTMLConversion

	// Style profile errors.
	ErrProfileNotFound = profiles.ErrProfileNotFound
	ErrInvalidProfile  = profiles.ErrInvalidProfile
	ErrInvalidBasePath = profiles.ErrInvalidBasePath

	// Image errors.
	ErrFetchImage           = imageinline.ErrFetchImage
	ErrUnsupportedImageType = upload.ErrUnsupportedImageType
	ErrImageTooLarge        = upload.ErrImageTooLarge
	ErrUploadFailed         = upload.ErrUploadFailed

	// Paste errors.
	ErrMarkdownConversion = paste.ErrMarkdownConversion

	// Clipboard errors.
	ErrClipboardWrite = clipboard.ErrWrite
	ErrNoClipboard    = clipboard.ErrNoTool

	// Preference errors.
	ErrPrefsRead  = prefs.ErrPrefsRead
	ErrPrefsWrite = prefs.ErrPrefsWrite

	// Snapshot errors.
	ErrBrowserConnect = snapshot.ErrBrowserConnect
	ErrPageLoad       = snapshot.ErrPageLoad
)
