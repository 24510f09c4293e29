package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates Markdown to HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// CodeBlockAttr marks the outer element of a decorated code block so the
// export path can find it without sniffing styles.
const CodeBlockAttr = "data-code-block"

// Code block window chrome. The three dots imitate a macOS title bar.
const (
	codeBlockOpen = `<div ` + CodeBlockAttr + `="" style="margin: 20px 0; border-radius: 8px; overflow: hidden; background: #383a42; box-shadow: 0 2px 8px rgba(0,0,0,0.15);">`

	codeBlockDots = `<div style="display: flex; align-items: center; gap: 6px; padding: 10px 12px; background: #2a2c33; border-bottom: 1px solid #1e1f24;">` +
		`<span style="width: 12px; height: 12px; border-radius: 50%; background: #ff5f56;"></span>` +
		`<span style="width: 12px; height: 12px; border-radius: 50%; background: #ffbd2e;"></span>` +
		`<span style="width: 12px; height: 12px; border-radius: 50%; background: #27c93f;"></span>` +
		`</div>`

	codeBlockBody = `<div style="padding: 16px; overflow-x: auto; background: #383a42;">`

	codeBlockCode = `<code style="display: block; color: #abb2bf; font-family: 'SF Mono', Monaco, 'Cascadia Code', Consolas, monospace; font-size: 14px; line-height: 1.6; white-space: pre;">`

	codeBlockClose = "</code></div></div>\n"
)

// codeStyle is the chroma style used for token colors.
const codeStyle = "monokai"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter renders Markdown to an HTML fragment using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, typographic
// punctuation, raw HTML passthrough and inline-styled code highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,         // Tables, strikethrough, linkify, task lists
			extension.Typographer, // Smart quotes and dashes
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),          // Inline styles survive the paste target
					chromahtml.PreventSurroundingPre(true), // The wrapper owns the block markup
				),
				highlighting.WithWrapperRenderer(renderCodeBlockWrapper),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(), // Authors embed raw HTML and image annotation comments
		),
	)
	return &GoldmarkConverter{md: md}
}

// renderCodeBlockWrapper emits the window chrome around every fenced code
// block. Unknown languages reach it too; their text is escaped by goldmark.
func renderCodeBlockWrapper(w util.BufWriter, _ highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(codeBlockOpen)
		_, _ = w.WriteString(codeBlockDots)
		_, _ = w.WriteString(codeBlockBody)
		_, _ = w.WriteString(codeBlockCode)
		return
	}
	_, _ = w.WriteString(codeBlockClose)
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
