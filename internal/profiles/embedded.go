package profiles

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.yaml
var styles embed.FS

// EmbeddedLoader loads the profiles compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load loads an embedded profile by key.
func (e *EmbeddedLoader) Load(key string) (Profile, error) {
	if err := ValidateKey(key); err != nil {
		return Profile{}, err
	}
	data, err := styles.ReadFile("styles/" + key + ".yaml")
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, key)
	}
	return Parse(key, data)
}

// Keys lists the embedded profile keys.
func (e *EmbeddedLoader) Keys() ([]string, error) {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileRead, err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".yaml"); ok {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
