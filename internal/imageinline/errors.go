package imageinline

import "errors"

// Sentinel errors for image fetching.
var (
	// ErrFetchImage indicates an image could not be retrieved.
	ErrFetchImage = errors.New("failed to fetch image")

	// ErrNotImage indicates the fetched content is not an image.
	ErrNotImage = errors.New("content is not an image")

	// ErrImageTooLarge indicates the image exceeds the fetch size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrUnsupportedSource indicates a source scheme the fetcher cannot read.
	ErrUnsupportedSource = errors.New("unsupported image source")
)
