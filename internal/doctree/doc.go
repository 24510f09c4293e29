// Package doctree provides an arena-backed HTML fragment tree.
//
// Nodes live in a single slice owned by the Tree and refer to each other by
// NodeID. Grouping, removal and replacement are index rewrites: a detached
// node stays in the arena but is unreachable from the root, so no operation
// can leave a dangling reference behind. Clone copies the arena, which is how
// the export path works on a private copy of the live preview.
//
// Parsing and serialization are delegated to golang.org/x/net/html; selector
// queries are compiled by cascadia and evaluated against a throwaway
// *html.Node mirror of the queried subtree.
package doctree
