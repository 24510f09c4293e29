// Package upload persists pasted or dropped images into a Markdown text
// buffer.
//
// An upload first validates the file, then registers a placeholder in the
// Buffer and receives an opaque Handle for it. The image is sent to the
// primary host; when that fails for a network-like reason the secondary host
// is tried; when both fail the image is embedded as a base64 data URI. The
// placeholder is always resolved through its Handle, so concurrent uploads
// and edits made while an upload is in flight never touch the wrong text.
package upload
