package doctree

import (
	"strings"
)

// NodeID identifies a node inside a Tree's arena.
type NodeID int

// NoNode is returned when a lookup has no result.
const NoNode NodeID = -1

// NodeType distinguishes element, text and comment nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

type node struct {
	typ       NodeType
	tag       string // element tag, lower case
	namespace string // "" for HTML, "svg" or "math" for foreign content
	data      string // text or comment content
	attrs     []Attr
	parent    NodeID
	children  []NodeID
}

// Tree is an ordered, mutable fragment tree. The root is a synthetic <body>
// element whose children are the fragment's top-level nodes.
// A Tree is not safe for concurrent mutation.
type Tree struct {
	nodes []node
	root  NodeID
}

// New returns an empty tree containing only the root.
func New() *Tree {
	t := &Tree{}
	t.root = t.alloc(node{typ: ElementNode, tag: "body", parent: NoNode})
	return t
}

func (t *Tree) alloc(n node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Root returns the synthetic body node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes in the arena, including detached ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Clone returns a deep copy. Node IDs are preserved, so an ID taken from the
// original addresses the same node in the clone.
func (t *Tree) Clone() *Tree {
	c := &Tree{root: t.root, nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		cp := n
		if n.attrs != nil {
			cp.attrs = append([]Attr(nil), n.attrs...)
		}
		if n.children != nil {
			cp.children = append([]NodeID(nil), n.children...)
		}
		c.nodes[i] = cp
	}
	return c
}

// Type returns the node type.
func (t *Tree) Type(id NodeID) NodeType {
	return t.nodes[id].typ
}

// Tag returns the lower-case element tag, or "" for non-element nodes.
func (t *Tree) Tag(id NodeID) string {
	if t.nodes[id].typ != ElementNode {
		return ""
	}
	return t.nodes[id].tag
}

// IsElement reports whether id is an element with the given tag.
func (t *Tree) IsElement(id NodeID, tag string) bool {
	n := &t.nodes[id]
	return n.typ == ElementNode && n.tag == tag
}

// Data returns the content of a text or comment node.
func (t *Tree) Data(id NodeID) string {
	return t.nodes[id].data
}

// Parent returns the parent of id, or NoNode for the root and detached nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns a copy of id's child list.
func (t *Tree) Children(id NodeID) []NodeID {
	return append([]NodeID(nil), t.nodes[id].children...)
}

// ElementChildren returns id's element children in document order.
func (t *Tree) ElementChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.nodes[id].children {
		if t.nodes[c].typ == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	for _, a := range t.nodes[id].attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when absent.
func (t *Tree) AttrOr(id NodeID, key, def string) string {
	if v, ok := t.Attr(id, key); ok {
		return v
	}
	return def
}

// Attrs returns a copy of the node's attributes.
func (t *Tree) Attrs(id NodeID) []Attr {
	return append([]Attr(nil), t.nodes[id].attrs...)
}

// SetAttr sets or replaces an attribute.
func (t *Tree) SetAttr(id NodeID, key, val string) {
	n := &t.nodes[id]
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func (t *Tree) RemoveAttr(id NodeID, key string) {
	n := &t.nodes[id]
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class attribute contains name.
func (t *Tree) HasClass(id NodeID, name string) bool {
	cls, ok := t.Attr(id, "class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(cls) {
		if f == name {
			return true
		}
	}
	return false
}

// NewElement allocates a detached element.
func (t *Tree) NewElement(tag string, attrs ...Attr) NodeID {
	return t.alloc(node{
		typ:    ElementNode,
		tag:    strings.ToLower(tag),
		attrs:  append([]Attr(nil), attrs...),
		parent: NoNode,
	})
}

// NewText allocates a detached text node.
func (t *Tree) NewText(text string) NodeID {
	return t.alloc(node{typ: TextNode, data: text, parent: NoNode})
}

// CloneNode copies the subtree rooted at id into new detached nodes of the
// same tree and returns the copy's root.
func (t *Tree) CloneNode(id NodeID) NodeID {
	src := t.nodes[id]
	cp := node{
		typ:       src.typ,
		tag:       src.tag,
		namespace: src.namespace,
		data:      src.data,
		attrs:     append([]Attr(nil), src.attrs...),
		parent:    NoNode,
	}
	nid := t.alloc(cp)
	for _, c := range src.children {
		cc := t.CloneNode(c)
		t.nodes[cc].parent = nid
		t.nodes[nid].children = append(t.nodes[nid].children, cc)
	}
	return nid
}

// Detach removes id from its parent's child list. The node and its subtree
// remain in the arena and can be re-attached.
func (t *Tree) Detach(id NodeID) {
	p := t.nodes[id].parent
	if p == NoNode {
		return
	}
	kids := t.nodes[p].children
	for i, c := range kids {
		if c == id {
			t.nodes[p].children = append(kids[:i:i], kids[i+1:]...)
			break
		}
	}
	t.nodes[id].parent = NoNode
}

// Remove is an alias for Detach, named for callers that discard the node.
func (t *Tree) Remove(id NodeID) {
	t.Detach(id)
}

// AppendChild detaches child from any previous parent and appends it to parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.Detach(child)
	t.nodes[child].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, child)
}

// InsertBefore inserts child immediately before ref in ref's parent.
// It is a no-op when ref is detached.
func (t *Tree) InsertBefore(child, ref NodeID) {
	p := t.nodes[ref].parent
	if p == NoNode {
		return
	}
	t.Detach(child)
	kids := t.nodes[p].children
	for i, c := range kids {
		if c == ref {
			out := make([]NodeID, 0, len(kids)+1)
			out = append(out, kids[:i]...)
			out = append(out, child)
			out = append(out, kids[i:]...)
			t.nodes[p].children = out
			t.nodes[child].parent = p
			return
		}
	}
}

// ReplaceWith puts repl where old was and detaches old.
func (t *Tree) ReplaceWith(old, repl NodeID) {
	if t.nodes[old].parent == NoNode {
		return
	}
	t.InsertBefore(repl, old)
	t.Detach(old)
}

// RemoveChildren detaches every child of id.
func (t *Tree) RemoveChildren(id NodeID) {
	for _, c := range t.nodes[id].children {
		t.nodes[c].parent = NoNode
	}
	t.nodes[id].children = nil
}

// MoveChildren moves all children of from to the end of to, keeping order.
func (t *Tree) MoveChildren(from, to NodeID) {
	kids := t.nodes[from].children
	t.nodes[from].children = nil
	for _, c := range kids {
		t.nodes[c].parent = to
		t.nodes[to].children = append(t.nodes[to].children, c)
	}
}

// SetText replaces id's children with a single text node.
func (t *Tree) SetText(id NodeID, text string) {
	t.RemoveChildren(id)
	t.AppendChild(id, t.NewText(text))
}

// Text returns the concatenated text of id and its descendants.
func (t *Tree) Text(id NodeID) string {
	var b strings.Builder
	t.collectText(id, &b)
	return b.String()
}

func (t *Tree) collectText(id NodeID, b *strings.Builder) {
	n := &t.nodes[id]
	switch n.typ {
	case TextNode:
		b.WriteString(n.data)
	case ElementNode:
		for _, c := range n.children {
			t.collectText(c, b)
		}
	}
}

// Walk visits id and its descendants in document order. Returning false from
// fn skips the visited node's subtree.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// FindAll returns id's descendants (excluding id) that are elements with the
// given tag, in document order.
func (t *Tree) FindAll(id NodeID, tag string) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) bool {
		if n != id && t.IsElement(n, tag) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindFirst returns the first descendant element with the given tag.
func (t *Tree) FindFirst(id NodeID, tag string) NodeID {
	found := NoNode
	t.Walk(id, func(n NodeID) bool {
		if found != NoNode {
			return false
		}
		if n != id && t.IsElement(n, tag) {
			found = n
			return false
		}
		return true
	})
	return found
}

// HasAncestor reports whether any ancestor of id satisfies pred.
func (t *Tree) HasAncestor(id NodeID, pred func(NodeID) bool) bool {
	for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
		if pred(p) {
			return true
		}
	}
	return false
}
