package upload

import "errors"

// Sentinel errors for image uploads.
var (
	// ErrUnsupportedImageType indicates the file is not an image.
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrImageTooLarge indicates the file exceeds the upload size limit.
	ErrImageTooLarge = errors.New("image exceeds upload size limit")

	// ErrUploadFailed indicates a host did not return an image URL.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrNoURL indicates the host response carried no URL at the configured path.
	ErrNoURL = errors.New("no image URL in host response")
)
