package pipeline

import (
	"strings"
)

// declaration is one "property: value" pair of an inline style.
type declaration struct {
	prop string // lower case
	val  string
}

// parseDeclarations splits an inline style attribute. Entries without a
// colon are dropped.
func parseDeclarations(style string) []declaration {
	var out []declaration
	for _, part := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, val: val})
	}
	return out
}

func formatDeclarations(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.prop+": "+d.val)
	}
	return strings.Join(parts, "; ")
}

// declarationValue returns the last value set for prop.
func declarationValue(style, prop string) (string, bool) {
	val, found := "", false
	for _, d := range parseDeclarations(style) {
		if d.prop == prop {
			val, found = d.val, true
		}
	}
	return val, found
}

// appendStyle concatenates decl onto an existing inline style. Later
// declarations win in CSS, so appended rules override earlier ones.
func appendStyle(current, decl string) string {
	current = strings.TrimRight(strings.TrimSpace(current), "; ")
	decl = strings.TrimSpace(decl)
	switch {
	case current == "":
		return decl
	case decl == "":
		return current
	default:
		return current + "; " + decl
	}
}

// removeDeclarations drops the declarations matched by drop and re-serializes
// what is left. An empty result means the style attribute can go.
func removeDeclarations(style string, drop func(declaration) bool) string {
	decls := parseDeclarations(style)
	kept := decls[:0]
	for _, d := range decls {
		if !drop(d) {
			kept = append(kept, d)
		}
	}
	return formatDeclarations(kept)
}

// ExtractBackground returns the background color of an inline style:
// background-color first, else a background shorthand starting with a hex
// or rgb() color.
func ExtractBackground(style string) (string, bool) {
	if v, ok := declarationValue(style, "background-color"); ok && v != "" {
		return v, true
	}
	if v, ok := declarationValue(style, "background"); ok {
		if strings.HasPrefix(v, "#") || strings.HasPrefix(strings.ToLower(v), "rgb") {
			return v, true
		}
	}
	return "", false
}

// IsWhite reports whether color is one of the spellings of plain white.
func IsWhite(color string) bool {
	c := strings.ToLower(strings.Join(strings.Fields(color), ""))
	switch c {
	case "#fff", "#ffffff", "white", "rgb(255,255,255)":
		return true
	}
	return false
}
