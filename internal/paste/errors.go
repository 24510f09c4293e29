package paste

import "errors"

// ErrMarkdownConversion indicates the HTML fragment could not be converted.
var ErrMarkdownConversion = errors.New("markdown conversion failed")
