package profiles

import "fmt"

// Table is an immutable, fully loaded set of profiles.
type Table struct {
	keys     []string
	profiles map[string]Profile
}

// LoadTable loads every profile a loader knows about. A single invalid
// profile fails the whole table.
func LoadTable(l Loader) (*Table, error) {
	keys, err := l.Keys()
	if err != nil {
		return nil, err
	}
	t := &Table{keys: keys, profiles: make(map[string]Profile, len(keys))}
	for _, k := range keys {
		p, err := l.Load(k)
		if err != nil {
			return nil, err
		}
		t.profiles[k] = p
	}
	return t, nil
}

// Get returns the profile for key.
func (t *Table) Get(key string) (Profile, error) {
	p, ok := t.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, key)
	}
	return p, nil
}

// Has reports whether key names a profile.
func (t *Table) Has(key string) bool {
	_, ok := t.profiles[key]
	return ok
}

// Keys returns the profile keys in sorted order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Name returns the display name of key, or key itself when unknown.
func (t *Table) Name(key string) string {
	if p, ok := t.profiles[key]; ok {
		return p.DisplayName()
	}
	return key
}
