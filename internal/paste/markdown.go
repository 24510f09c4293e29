package paste

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	extraNewlines = regexp.MustCompile(`\n{3,}`)
	dataImageType = regexp.MustCompile(`(?i)^data:image/([a-z0-9.+-]+)`)
	codeLanguage  = regexp.MustCompile(`^language-[\w+-]+$`)
)

// Converter turns pasted HTML into Markdown.
type Converter struct {
	conv   *converter.Converter
	policy *bluemonday.Policy
}

// NewConverter creates a Converter producing ATX headings, dash bullets,
// fenced code, asterisk emphasis and inline links.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithEmDelimiter("*"),
				commonmark.WithStrongDelimiter("**"),
			),
		),
	)
	conv.Register.RendererFor("table", converter.TagTypeBlock, renderTable, converter.PriorityEarly)
	conv.Register.RendererFor("img", converter.TagTypeInline, renderDataImage, converter.PriorityEarly)

	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Matching(codeLanguage).OnElements("code")

	return &Converter{conv: conv, policy: policy}
}

// Convert sanitizes fragment and returns its Markdown form. Runs of three or
// more newlines collapse to one blank line.
func (c *Converter) Convert(fragment string) (md string, err error) {
	defer func() {
		if r := recover(); r != nil {
			md, err = "", fmt.Errorf("%w: panic: %v", ErrMarkdownConversion, r)
		}
	}()

	out, err := c.conv.ConvertString(c.policy.Sanitize(fragment))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownConversion, err)
	}
	out = strings.TrimSpace(extraNewlines.ReplaceAllString(out, "\n\n"))
	if out == "" && strings.TrimSpace(fragment) != "" {
		return "", fmt.Errorf("%w: no content", ErrMarkdownConversion)
	}
	return out, nil
}

// ConvertOrText converts fragment. On failure it returns text unchanged
// together with the conversion error.
func (c *Converter) ConvertOrText(fragment, text string) (string, error) {
	md, err := c.Convert(fragment)
	if err != nil {
		return text, err
	}
	return md, nil
}

// renderDataImage redacts data URI images to their subtype. Other images go
// to the commonmark renderer.
func renderDataImage(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
	m := dataImageType.FindStringSubmatch(src)
	if m == nil {
		return converter.RenderTryNext
	}
	alt := strings.TrimSpace(dom.GetAttributeOr(n, "alt", ""))
	_, _ = w.WriteString(RedactedImage(alt, strings.ToLower(m[1])))
	return converter.RenderSuccess
}

// RedactedImage is the Markdown written in place of a data URI image.
func RedactedImage(alt, subtype string) string {
	return "![" + alt + "](data:image/" + subtype + ";base64,...)"
}

// renderTable writes one pipe row per <tr>. The dash separator follows the
// first row holding <th> cells, or the first row when there is none.
func renderTable(_ converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	rows := dom.FindAllNodes(n, func(node *html.Node) bool {
		return dom.NodeName(node) == "tr" && owningTable(node) == n
	})
	if len(rows) == 0 {
		return converter.RenderTryNext
	}

	header := 0
	for i, tr := range rows {
		if dom.ContainsNode(tr, func(c *html.Node) bool { return dom.NodeName(c) == "th" }) {
			header = i
			break
		}
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for i, tr := range rows {
		cells := rowCells(tr)
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == header {
			seps := make([]string, len(cells))
			for j := range seps {
				seps[j] = "---"
			}
			b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		}
	}
	b.WriteString("\n")
	_, _ = w.WriteString(b.String())
	return converter.RenderSuccess
}

// owningTable returns the nearest <table> ancestor of node. Rows of nested
// tables belong to the inner table and are not rows of the outer one.
func owningTable(node *html.Node) *html.Node {
	for p := node.Parent; p != nil; p = p.Parent {
		if dom.NodeName(p) == "table" {
			return p
		}
	}
	return nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for _, c := range dom.AllChildElements(tr) {
		if name := dom.NodeName(c); name != "td" && name != "th" {
			continue
		}
		text := strings.Join(strings.Fields(dom.CollectText(c)), " ")
		cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
	}
	return cells
}
