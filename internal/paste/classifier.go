package paste

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Decision is the routing outcome for one paste.
type Decision int

// Paste decisions.
const (
	// DecisionDefault lets the host insert the paste unchanged.
	DecisionDefault Decision = iota
	// DecisionUploadImage hands the image file to the upload pipeline.
	DecisionUploadImage
	// DecisionPlaceholderWarning drops text made only of image placeholders.
	DecisionPlaceholderWarning
	// DecisionConvertHTML converts the HTML payload to Markdown.
	DecisionConvertHTML
	// DecisionLocalImageWarning lets the paste through and warns about local
	// image paths that cannot be carried over.
	DecisionLocalImageWarning
)

var decisionNames = map[Decision]string{
	DecisionDefault:            "default",
	DecisionUploadImage:        "upload-image",
	DecisionPlaceholderWarning: "placeholder-warning",
	DecisionConvertHTML:        "convert-html",
	DecisionLocalImageWarning:  "local-image-warning",
}

func (d Decision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Intercepts reports whether the default paste must be suppressed.
func (d Decision) Intercepts() bool {
	switch d {
	case DecisionUploadImage, DecisionPlaceholderWarning, DecisionConvertHTML:
		return true
	default:
		return false
	}
}

// File is a pasted or dropped file.
type File struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// IsImage reports whether the declared type is an image type.
func (f File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.Type), "image/")
}

// Item kinds.
const (
	KindFile   = "file"
	KindString = "string"
)

// Item is one clipboard item. File is set for file items.
type Item struct {
	Kind string `json:"kind"`
	Type string `json:"type"`
	File *File  `json:"file,omitempty"`
}

// Payload holds every data kind carried by one paste event.
type Payload struct {
	Files []File `json:"files,omitempty"`
	Items []Item `json:"items,omitempty"`
	HTML  string `json:"html,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Classification is the result of Classify.
type Classification struct {
	Decision Decision
	// Rule names the rule that fired.
	Rule string
	// File is the image to upload for DecisionUploadImage.
	File *File
	// Score is the Markdown score of the plain text.
	Score Score
}

// evidence is computed once per payload and shared by all rules.
type evidence struct {
	payload Payload
	score   Score
	html    *htmlEvidence
}

type htmlEvidence struct {
	codeExport  bool
	localImages bool
}

type rule struct {
	name  string
	match func(ev *evidence) (Decision, *File, bool)
}

var placeholderOnly = regexp.MustCompile(`^\s*(\[Image #\d+\]\s*)+$`)

// Evaluated in order; the first match wins.
var rules = []rule{
	{"file-image", func(ev *evidence) (Decision, *File, bool) {
		for i := range ev.payload.Files {
			if ev.payload.Files[i].IsImage() {
				return DecisionUploadImage, &ev.payload.Files[i], true
			}
		}
		return 0, nil, false
	}},
	{"item-image", func(ev *evidence) (Decision, *File, bool) {
		for _, it := range ev.payload.Items {
			if it.Kind == KindFile && it.File != nil &&
				strings.HasPrefix(strings.ToLower(it.Type), "image/") {
				f := *it.File
				if f.Type == "" {
					f.Type = it.Type
				}
				return DecisionUploadImage, &f, true
			}
		}
		return 0, nil, false
	}},
	{"image-placeholder", func(ev *evidence) (Decision, *File, bool) {
		return DecisionPlaceholderWarning, nil, placeholderOnly.MatchString(ev.payload.Text)
	}},
	{"markdown-text", func(ev *evidence) (Decision, *File, bool) {
		return DecisionDefault, nil, ev.score.IsMarkdown()
	}},
	{"html", func(ev *evidence) (Decision, *File, bool) {
		if strings.TrimSpace(ev.payload.HTML) == "" {
			return 0, nil, false
		}
		h := ev.htmlEvidence()
		switch {
		case h.codeExport:
			return DecisionDefault, nil, true
		case h.localImages:
			return DecisionLocalImageWarning, nil, true
		default:
			return DecisionConvertHTML, nil, true
		}
	}},
}

// Classify routes a paste through the rule table.
func Classify(p Payload) Classification {
	ev := &evidence{payload: p, score: ScoreMarkdown(p.Text)}
	for _, r := range rules {
		if d, f, ok := r.match(ev); ok {
			return Classification{Decision: d, Rule: r.name, File: f, Score: ev.score}
		}
	}
	return Classification{Decision: DecisionDefault, Rule: "default", Score: ev.score}
}

func (ev *evidence) htmlEvidence() *htmlEvidence {
	if ev.html == nil {
		ev.html = inspectHTML(ev.payload.HTML)
	}
	return ev.html
}

// Code editors export a top-level <pre> or <code>, sometimes as the only
// element inside a wrapper div. Articles copied with a container div keep
// their prose next to the <pre> and do not match.
const codeExportSelector = "body > pre, body > code, body > div > pre:only-child, body > div > code:only-child"

func inspectHTML(fragment string) *htmlEvidence {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return &htmlEvidence{}
	}
	h := &htmlEvidence{codeExport: doc.Find(codeExportSelector).Length() > 0}
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if IsLocalImagePath(src) {
			h.localImages = true
			return false
		}
		return true
	})
	return h
}

var windowsDrive = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// IsLocalImagePath reports whether src points into the local filesystem
// rather than to something a browser can fetch.
func IsLocalImagePath(src string) bool {
	s := strings.TrimSpace(src)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "file:"):
		return true
	case windowsDrive.MatchString(s), strings.HasPrefix(s, `\\`):
		return true
	case strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//"):
		return true
	default:
		return false
	}
}
