package paste

import "regexp"

// MarkdownThreshold is the number of distinct constructs that classify a
// text as Markdown.
const MarkdownThreshold = 2

// AnnotationPattern names the image annotation comment check.
const AnnotationPattern = "annotation"

type pattern struct {
	name string
	re   *regexp.Regexp
}

// Evaluated in order; Score.Matched keeps this order.
var markdownPatterns = []pattern{
	{"heading", regexp.MustCompile(`(?m)^#{1,6}\s+\S`)},
	{"bold", regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`)},
	{"italic", regexp.MustCompile(`(?m)(?:^|[^*\w])\*[^*\s][^*\n]*\*(?:[^*]|$)|(?:^|[^_\w])_[^_\s][^_\n]*_(?:[^_\w]|$)`)},
	{"link", regexp.MustCompile(`(?m)(?:^|[^!])\[[^\]\n]+\]\([^)\n]+\)`)},
	{"image", regexp.MustCompile(`!\[[^\]\n]*\]\([^)\n]+\)`)},
	{"bullet-list", regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\S`)},
	{"ordered-list", regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+\S`)},
	{"blockquote", regexp.MustCompile(`(?m)^[ \t]*>`)},
	{"inline-code", regexp.MustCompile("`[^`\n]+`")},
	{"fenced-code", regexp.MustCompile("(?m)^[ \t]*(?:```|~~~)")},
	{"table-row", regexp.MustCompile(`(?m)^[ \t]*\|.*\|[ \t]*$`)},
	{AnnotationPattern, regexp.MustCompile(`(?i)<!--\s*(?:image|img)\s*:[^\n]*?-->`)},
	{"horizontal-rule", regexp.MustCompile(`(?m)^[ \t]*(?:-[ \t]*){3,}$|^[ \t]*(?:\*[ \t]*){3,}$|^[ \t]*(?:_[ \t]*){3,}$`)},
}

// Score is the outcome of ScoreMarkdown.
type Score struct {
	Count      int
	Matched    []string
	Annotation bool
}

// IsMarkdown reports whether the score classifies the text as Markdown.
func (s Score) IsMarkdown() bool {
	return s.Annotation || s.Count >= MarkdownThreshold
}

// ScoreMarkdown counts the Markdown constructs present anywhere in text.
// Each construct counts once however often it occurs.
func ScoreMarkdown(text string) Score {
	var s Score
	for _, p := range markdownPatterns {
		if !p.re.MatchString(text) {
			continue
		}
		s.Count++
		s.Matched = append(s.Matched, p.name)
		if p.name == AnnotationPattern {
			s.Annotation = true
		}
	}
	return s
}

// LooksLikeMarkdown is shorthand for ScoreMarkdown(text).IsMarkdown().
func LooksLikeMarkdown(text string) bool {
	return ScoreMarkdown(text).IsMarkdown()
}
