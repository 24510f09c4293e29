package pipeline

import (
	"context"
	"regexp"
)

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// listFixups repair "label: value" list items that an author broke across
// lines. They run in order; each is an independent substitution.
var listFixups = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	// "- Label\n  : value" → "- Label: value"
	{regexp.MustCompile(`(?m)^(\s*(?:\d+\.|-|\*)\s+[^:\n]+)\n\s*:\s*(.+?)$`), "${1}: ${2}"},
	// "- Label:\n  value" → "- Label: value"
	{regexp.MustCompile(`(?m)^(\s*(?:\d+\.|-|\*)\s+.+?:)\s*\n\s+(.+?)$`), "${1} ${2}"},
	// "- Label\n: value" → "- Label: value"
	{regexp.MustCompile(`(?m)^(\s*(?:\d+\.|-|\*)\s+[^:\n]+)\n:\s*(.+?)$`), "${1}: ${2}"},
	// "- Item\n\n  continuation" → "- Item continuation"
	{regexp.MustCompile(`(?m)^(\s*(?:\d+\.|-|\*)\s+.+?)\n\n\s+(.+?)$`), "${1} ${2}"},
}

// MarkdownNormalizer rewrites Markdown before rendering.
type MarkdownNormalizer interface {
	NormalizeMarkdown(ctx context.Context, content string) string
}

// ListNormalizer joins list items split across lines. It never fails; input
// without matching lines comes back unchanged apart from line endings.
type ListNormalizer struct{}

// NormalizeMarkdown applies line-ending normalization then the list fixups.
func (ListNormalizer) NormalizeMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = crlfOrCR.ReplaceAllString(content, "\n")
	for _, f := range listFixups {
		content = f.pattern.ReplaceAllString(content, f.repl)
	}
	return content
}

// Compile-time interface check.
var _ MarkdownNormalizer = ListNormalizer{}
