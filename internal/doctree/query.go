package doctree

import (
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
)

var selectorCache sync.Map // string -> cascadia.Selector

func compile(selector string) (cascadia.Selector, error) {
	if cached, ok := selectorCache.Load(selector); ok {
		return cached.(cascadia.Selector), nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}
	selectorCache.Store(selector, sel)
	return sel, nil
}

// ValidSelector reports whether selector compiles.
func ValidSelector(selector string) error {
	_, err := compile(selector)
	return err
}

// Query returns the descendants of id (excluding id) matching a CSS selector,
// in document order. Ancestors of id are not visible to the selector.
func (t *Tree) Query(id NodeID, selector string) ([]NodeID, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	mirror, index := t.mirror(id)
	var out []NodeID
	for _, m := range sel.MatchAll(mirror) {
		if m == mirror {
			continue
		}
		out = append(out, index[m])
	}
	return out, nil
}

// MustQuery is Query for selectors known to be valid at compile time.
func (t *Tree) MustQuery(id NodeID, selector string) []NodeID {
	out, err := t.Query(id, selector)
	if err != nil {
		panic(err)
	}
	return out
}
