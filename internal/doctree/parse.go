package doctree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a Tree from an HTML fragment. A full document (starting with
// <!DOCTYPE or <html) is accepted too; its <body> children become the
// fragment's top-level nodes.
func Parse(content string) (*Tree, error) {
	t := New()
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		if body := findBody(doc); body != nil {
			for c := body.FirstChild; c != nil; c = c.NextSibling {
				t.adopt(t.root, c)
			}
		}
		return t, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		t.adopt(t.root, n)
	}
	return t, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// adopt copies src (and its subtree) into the arena under parent.
func (t *Tree) adopt(parent NodeID, src *html.Node) {
	var n node
	switch src.Type {
	case html.ElementNode:
		n = node{typ: ElementNode, tag: src.Data, namespace: src.Namespace}
		if len(src.Attr) > 0 {
			n.attrs = make([]Attr, 0, len(src.Attr))
			for _, a := range src.Attr {
				n.attrs = append(n.attrs, Attr{Key: a.Key, Val: a.Val})
			}
		}
	case html.TextNode:
		n = node{typ: TextNode, data: src.Data}
	case html.CommentNode:
		n = node{typ: CommentNode, data: src.Data}
	default:
		return
	}
	n.parent = parent
	id := t.alloc(n)
	t.nodes[parent].children = append(t.nodes[parent].children, id)

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		t.adopt(id, c)
	}
}
