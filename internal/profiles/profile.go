package profiles

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2wechat/internal/doctree"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// Selectors whose elements keep the inline styling produced by the code
// block formatter.
var codeSelectors = map[string]bool{
	"pre":      true,
	"code":     true,
	"pre code": true,
}

// IsCodeSelector reports whether selector addresses code block elements.
func IsCodeSelector(selector string) bool {
	return codeSelectors[strings.Join(strings.Fields(selector), " ")]
}

// Rule is one selector → declaration pair.
type Rule struct {
	Selector string `yaml:"selector"`
	Style    string `yaml:"style"`
}

// Profile is one visual theme. Profiles are values: callers receive copies
// and nothing in this package mutates a profile after loading.
type Profile struct {
	Key       string `yaml:"-"`
	Name      string `yaml:"name"`
	Container string `yaml:"container"`
	Styles    []Rule `yaml:"styles"`
}

// Style returns the declaration for selector, if the profile has one.
func (p Profile) Style(selector string) (string, bool) {
	for _, r := range p.Styles {
		if r.Selector == selector {
			return r.Style, true
		}
	}
	return "", false
}

// DisplayName returns the profile name, or its key when unnamed.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}

// Validate checks that every selector compiles and the profile is named.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: %q: name is required", ErrInvalidProfile, p.Key)
	}
	for i, r := range p.Styles {
		if strings.TrimSpace(r.Selector) == "" {
			return fmt.Errorf("%w: %q: styles[%d]: empty selector", ErrInvalidProfile, p.Key, i)
		}
		if err := doctree.ValidSelector(r.Selector); err != nil {
			return fmt.Errorf("%w: %q: styles[%d]: %v", ErrInvalidProfile, p.Key, i, err)
		}
	}
	return nil
}

// Parse decodes and validates a profile document.
func Parse(key string, data []byte) (Profile, error) {
	var p Profile
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return Profile{}, fmt.Errorf("%w: %q: %v", ErrInvalidProfile, key, err)
	}
	p.Key = key
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
