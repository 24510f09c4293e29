package profiles

import "errors"

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates no profile exists under the requested key.
	ErrProfileNotFound = errors.New("style profile not found")

	// ErrInvalidKey indicates the key contains path separators, dots or is empty.
	ErrInvalidKey = errors.New("invalid profile key")

	// ErrInvalidProfile indicates a profile document failed validation.
	ErrInvalidProfile = errors.New("invalid style profile")

	// ErrInvalidBasePath indicates the configured directory is unusable.
	ErrInvalidBasePath = errors.New("invalid profiles directory")

	// ErrProfileRead indicates an I/O error while reading a profile file.
	ErrProfileRead = errors.New("failed to read profile")

	// ErrPathTraversal indicates a resolved path escaped the base directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
