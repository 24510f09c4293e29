package doctree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serializes the root's children, i.e. the body's inner HTML.
func (t *Tree) Render() (string, error) {
	return t.InnerHTML(t.root)
}

// InnerHTML serializes the children of id.
func (t *Tree) InnerHTML(id NodeID) (string, error) {
	mirror, _ := t.mirror(id)
	var buf strings.Builder
	for c := mirror.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// OuterHTML serializes id including its own tag.
func (t *Tree) OuterHTML(id NodeID) (string, error) {
	mirror, _ := t.mirror(id)
	var buf strings.Builder
	if err := html.Render(&buf, mirror); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// mirror materializes the subtree at id as *html.Node values and returns the
// mirror root together with the reverse index back into the arena.
func (t *Tree) mirror(id NodeID) (*html.Node, map[*html.Node]NodeID) {
	index := make(map[*html.Node]NodeID)
	root := t.mirrorNode(id, index)
	return root, index
}

func (t *Tree) mirrorNode(id NodeID, index map[*html.Node]NodeID) *html.Node {
	n := &t.nodes[id]
	var out *html.Node
	switch n.typ {
	case ElementNode:
		out = &html.Node{
			Type:      html.ElementNode,
			Data:      n.tag,
			Namespace: n.namespace,
		}
		if n.namespace == "" {
			out.DataAtom = atom.Lookup([]byte(n.tag))
		}
		for _, a := range n.attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	case TextNode:
		out = &html.Node{Type: html.TextNode, Data: n.data}
	case CommentNode:
		out = &html.Node{Type: html.CommentNode, Data: n.data}
	}
	index[out] = id
	for _, c := range n.children {
		out.AppendChild(t.mirrorNode(c, index))
	}
	return out
}
