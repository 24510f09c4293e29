package pipeline

import (
	"strings"

	"github.com/alnah/go-md2wechat/internal/doctree"
)

// Section defaults when the container declares no padding or max-width.
const (
	defaultSectionPadding  = "40px 20px"
	defaultSectionMaxWidth = "100%"
)

const (
	plainPreStyle = "background: linear-gradient(to bottom, #2a2c33 0%, #383a42 8px, #383a42 100%); " +
		"padding: 0; border-radius: 6px; overflow: hidden; margin: 24px 0; box-shadow: 0 2px 8px rgba(0,0,0,0.15)"
	plainCodeStyle = `color: #abb2bf; font-family: "SF Mono", Consolas, Monaco, "Courier New", monospace; ` +
		"font-size: 14px; line-height: 1.7; display: block; white-space: pre; padding: 16px 20px; " +
		"-webkit-font-smoothing: antialiased; -moz-osx-font-smoothing: grayscale"
)

// WrapSection moves the root's children into a <section> carrying the
// container's background when that background is not white, and strips the
// declarations that would box the content a second time: max-width,
// "margin: 0 auto" and the same background color. Empty style attributes are
// removed. It reports whether a section was added.
func WrapSection(t *doctree.Tree, containerStyle string) bool {
	bg, ok := ExtractBackground(containerStyle)
	if !ok || IsWhite(bg) {
		return false
	}

	padding, ok := declarationValue(containerStyle, "padding")
	if !ok || padding == "" {
		padding = defaultSectionPadding
	}
	maxWidth, ok := declarationValue(containerStyle, "max-width")
	if !ok || maxWidth == "" {
		maxWidth = defaultSectionMaxWidth
	}

	section := t.NewElement("section", doctree.Attr{
		Key: "style",
		Val: "background-color: " + bg + "; padding: " + padding + "; max-width: " + maxWidth +
			"; margin: 0 auto; box-sizing: border-box; word-wrap: break-word",
	})
	t.MoveChildren(t.Root(), section)
	t.AppendChild(t.Root(), section)

	drop := func(d declaration) bool {
		switch d.prop {
		case "max-width":
			return true
		case "margin":
			return strings.Join(strings.Fields(d.val), " ") == "0 auto"
		case "background-color":
			return strings.EqualFold(d.val, bg)
		}
		return false
	}

	t.Walk(section, func(id doctree.NodeID) bool {
		if id == section || t.Type(id) != doctree.ElementNode {
			return true
		}
		style, ok := t.Attr(id, "style")
		if !ok {
			return true
		}
		if cleaned := removeDeclarations(style, drop); cleaned != "" {
			t.SetAttr(id, "style", cleaned)
		} else {
			t.RemoveAttr(id, "style")
		}
		return true
	})
	return true
}

// SimplifyCodeBlocks replaces each decorated code block with a plain
// <pre><code> pair holding the block's text, and returns the count.
func SimplifyCodeBlocks(t *doctree.Tree) int {
	var blocks []doctree.NodeID
	t.Walk(t.Root(), func(id doctree.NodeID) bool {
		if t.Type(id) != doctree.ElementNode {
			return false
		}
		if _, ok := t.Attr(id, CodeBlockAttr); ok {
			blocks = append(blocks, id)
			return false
		}
		return true
	})

	n := 0
	for _, block := range blocks {
		code := t.FindFirst(block, "code")
		if code == doctree.NoNode {
			continue
		}
		pre := t.NewElement("pre", doctree.Attr{Key: "style", Val: plainPreStyle})
		plain := t.NewElement("code", doctree.Attr{Key: "style", Val: plainCodeStyle})
		t.SetText(plain, t.Text(code))
		t.AppendChild(pre, plain)
		t.ReplaceWith(block, pre)
		n++
	}
	return n
}

// FlattenListItems replaces the content of every list item with its text,
// whitespace collapsed to single spaces. Nested items are folded into their
// parent's text.
func FlattenListItems(t *doctree.Tree) int {
	items := t.FindAll(t.Root(), "li")
	n := 0
	for _, li := range items {
		if !t.HasAncestor(li, func(a doctree.NodeID) bool { return a == t.Root() }) {
			continue // folded into an outer item
		}
		t.SetText(li, strings.Join(strings.Fields(t.Text(li)), " "))
		n++
	}
	return n
}
