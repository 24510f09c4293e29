package main

import (
	"errors"
	"os"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/fileutil"
)

// Exit codes for the md2wechat CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, style or input
	ExitIO      = 3 // File, clipboard or preference store errors
	ExitNetwork = 4 // Browser, image host or image fetch errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser and network errors (exit 4)
	if errors.Is(err, md2wechat.ErrBrowserConnect) ||
		errors.Is(err, md2wechat.ErrPageLoad) ||
		errors.Is(err, md2wechat.ErrUploadFailed) ||
		errors.Is(err, md2wechat.ErrFetchImage) {
		return ExitNetwork
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrFileTooLarge) ||
		errors.Is(err, md2wechat.ErrClipboardWrite) ||
		errors.Is(err, md2wechat.ErrNoClipboard) ||
		errors.Is(err, md2wechat.ErrPrefsRead) ||
		errors.Is(err, md2wechat.ErrPrefsWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, fileutil.ErrNotMarkdown) ||
		errors.Is(err, md2wechat.ErrNothingToCopy) ||
		errors.Is(err, md2wechat.ErrProfileNotFound) ||
		errors.Is(err, md2wechat.ErrInvalidProfile) ||
		errors.Is(err, md2wechat.ErrInvalidBasePath) ||
		errors.Is(err, md2wechat.ErrUnsupportedImageType) ||
		errors.Is(err, md2wechat.ErrImageTooLarge) {
		return ExitUsage
	}

	return ExitGeneral
}
