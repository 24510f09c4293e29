package imageinline

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// IsDataURI reports whether src already embeds its bytes.
func IsDataURI(src string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:")
}

// ImageType returns the media type of data. A declared image/* type wins;
// otherwise the bytes are sniffed. The result has no parameters.
func ImageType(declared string, data []byte) (string, bool) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		return mt, true
	}
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			mt, _, _ := mime.ParseMediaType(m.String())
			return mt, true
		}
	}
	return detected.String(), false
}

// DataURI encodes data as a base64 data URI of the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
