package profiles

import (
	"errors"
	"sort"
)

// Resolver combines a custom and the embedded loader. Custom profiles take
// precedence; lookups fall back to embedded only when the custom directory
// has no such profile.
type Resolver struct {
	custom   Loader // nil if no custom directory configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customBasePath uses embedded
// profiles only.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// Load loads a profile, trying the custom loader first if available.
func (r *Resolver) Load(key string) (Profile, error) {
	if r.custom == nil {
		return r.embedded.Load(key)
	}
	p, err := r.custom.Load(key)
	if err == nil {
		return p, nil
	}
	// Only fall back for "not found", not validation or I/O errors.
	if !errors.Is(err, ErrProfileNotFound) {
		return Profile{}, err
	}
	return r.embedded.Load(key)
}

// Keys returns the union of custom and embedded keys.
func (r *Resolver) Keys() ([]string, error) {
	keys, err := r.embedded.Keys()
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return keys, nil
	}
	customKeys, err := r.custom.Keys()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range customKeys {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
