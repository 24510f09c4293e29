package pipeline

import (
	"fmt"

	"github.com/alnah/go-md2wechat/internal/doctree"
	"github.com/alnah/go-md2wechat/internal/profiles"
)

// StyleArticle groups images, applies the profile's rules as inline styles
// and wraps every top-level node in a container carrying the profile's
// container declaration. It returns the container.
//
// Code block selectors are skipped and code block elements are never touched,
// so code blocks keep the styling produced by the code block formatter. Images already inside a grid keep the grid's
// sizing rules.
func StyleArticle(t *doctree.Tree, p profiles.Profile) (doctree.NodeID, error) {
	GroupImages(t)

	if err := ApplyRules(t, t.Root(), p.Styles); err != nil {
		return doctree.NoNode, err
	}

	container := t.NewElement("div")
	if p.Container != "" {
		t.SetAttr(container, "style", p.Container)
	}
	t.MoveChildren(t.Root(), container)
	t.AppendChild(t.Root(), container)
	return container, nil
}

// ApplyRules appends each rule's declaration to the inline style of the
// descendants of scope it selects, in rule order.
func ApplyRules(t *doctree.Tree, scope doctree.NodeID, rules []profiles.Rule) error {
	for _, r := range rules {
		if profiles.IsCodeSelector(r.Selector) {
			continue
		}
		matches, err := t.Query(scope, r.Selector)
		if err != nil {
			return fmt.Errorf("applying %q: %w", r.Selector, err)
		}
		for _, el := range matches {
			if inCodeBlock(t, el) || (t.IsElement(el, "img") && inGrid(t, el)) {
				continue
			}
			t.SetAttr(el, "style", appendStyle(t.AttrOr(el, "style", ""), r.Style))
		}
	}
	return nil
}

// inCodeBlock reports whether el belongs to a fenced or indented code block.
func inCodeBlock(t *doctree.Tree, el doctree.NodeID) bool {
	isBlock := func(id doctree.NodeID) bool {
		_, decorated := t.Attr(id, CodeBlockAttr)
		return decorated || t.IsElement(id, "pre")
	}
	return isBlock(el) || t.HasAncestor(el, isBlock)
}

func inGrid(t *doctree.Tree, id doctree.NodeID) bool {
	return t.HasAncestor(id, func(a doctree.NodeID) bool {
		return t.HasClass(a, GridClass)
	})
}

// StyleHTML parses a rendered fragment, styles it and serializes the result.
func StyleHTML(fragment string, p profiles.Profile) (string, error) {
	t, err := doctree.Parse(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: parsing rendered HTML: %v", ErrHTMLConversion, err)
	}
	if _, err := StyleArticle(t, p); err != nil {
		return "", err
	}
	return t.Render()
}
