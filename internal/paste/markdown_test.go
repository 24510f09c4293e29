package paste

// Notes:
// - Assertions look for fragments rather than whole documents; spacing
//   between blocks belongs to the conversion library.

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestConverter_Convert - HTML to Markdown
// ---------------------------------------------------------------------------

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	c := NewConverter()

	tests := []struct {
		name    string
		html    string
		want    []string
		notWant []string
	}{
		{
			name: "headings and emphasis",
			html: "<h1>Title</h1><p><b>bold</b> and <i>it</i></p>",
			want: []string{"# Title", "**bold**", "*it*"},
		},
		{
			name: "dash bullets",
			html: "<ul><li>one</li><li>two</li></ul>",
			want: []string{"- one", "- two"},
		},
		{
			name: "fenced code",
			html: `<pre><code class="language-go">x := 1</code></pre>`,
			want: []string{"```go\nx := 1"},
		},
		{
			name:    "only language classes survive on code",
			html:    `<pre><code class="evil">y</code></pre>`,
			want:    []string{"```\ny"},
			notWant: []string{"evil"},
		},
		{
			name: "inline link",
			html: `<p><a href="https://example.com">site</a></p>`,
			want: []string{"[site](https://example.com)"},
		},
		{
			name:    "remote image",
			html:    `<p><img src="https://example.com/a.png" alt="pic"></p>`,
			want:    []string{"![pic](https://example.com/a.png)"},
			notWant: []string{"base64"},
		},
		{
			name:    "data image redacted",
			html:    `<p><img src="data:image/png;base64,iVBORw0KGgo=" alt="chart"></p>`,
			want:    []string{"![chart](data:image/png;base64,...)"},
			notWant: []string{"iVBORw0KGgo"},
		},
		{
			name: "table with header",
			html: "<table><thead><tr><th>A</th><th>B</th></tr></thead>" +
				"<tbody><tr><td>1</td><td>two\nlines</td></tr></tbody></table>",
			want: []string{"| A | B |\n| --- | --- |\n| 1 | two lines |"},
		},
		{
			name: "table without header",
			html: "<table><tr><td>x</td><td>y</td></tr><tr><td>z</td><td>w</td></tr></table>",
			want: []string{"| x | y |\n| --- | --- |\n| z | w |"},
		},
		{
			name: "header after a caption row",
			html: "<table><tr><td>note</td></tr><tr><th>H</th></tr><tr><td>v</td></tr></table>",
			want: []string{"| note |\n| H |\n| --- |\n| v |"},
		},
		{
			name:    "nested table rows stay in their cell",
			html:    "<table><tr><td>outer<table><tr><td>inner</td></tr></table></td></tr></table>",
			want:    []string{"| outer"},
			notWant: []string{"| inner |"},
		},
		{
			name:    "scripts stripped",
			html:    "<p>safe</p><script>alert(1)</script>",
			want:    []string{"safe"},
			notWant: []string{"alert"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Convert(tt.html)
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Convert() = %q, missing %q", got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("Convert() = %q, must not contain %q", got, nw)
				}
			}
			if strings.Contains(got, "\n\n\n") {
				t.Errorf("Convert() = %q, has 3+ consecutive newlines", got)
			}
		})
	}
}

func TestConverter_ConvertOrText(t *testing.T) {
	t.Parallel()

	c := NewConverter()

	md, err := c.ConvertOrText("<h2>Hi</h2>", "Hi")
	if err != nil || !strings.Contains(md, "## Hi") {
		t.Errorf("ConvertOrText() = %q, %v", md, err)
	}

	// Only a script: sanitized to nothing, so the text payload is used.
	md, err = c.ConvertOrText("<script>x()</script>", "fallback text")
	if !errors.Is(err, ErrMarkdownConversion) {
		t.Errorf("error = %v, want ErrMarkdownConversion", err)
	}
	if md != "fallback text" {
		t.Errorf("ConvertOrText() = %q, want the plain text", md)
	}
}

func TestRedactedImage(t *testing.T) {
	t.Parallel()

	if got := RedactedImage("", "webp"); got != "![](data:image/webp;base64,...)" {
		t.Errorf("RedactedImage() = %q", got)
	}
}
