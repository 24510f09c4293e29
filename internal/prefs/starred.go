package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/alnah/go-md2wechat/internal/logging"
)

// StarredKey is the store key of the starred style list.
const StarredKey = "starredStyles"

// Starred manages the starred style profile keys.
type Starred struct {
	store  Store
	logger logging.Logger
	mu     sync.Mutex
}

// NewStarred creates a Starred backed by store.
func NewStarred(store Store, logger logging.Logger) *Starred {
	return &Starred{store: store, logger: logging.OrNoOp(logger)}
}

// List returns the starred keys in the order they were starred.
func (s *Starred) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// IsStarred reports whether key is starred.
func (s *Starred) IsStarred(ctx context.Context, key string) bool {
	return slices.Contains(s.List(ctx), key)
}

// Toggle stars key if it is not starred and unstars it otherwise. It returns
// the new state. A write failure is returned wrapped in ErrPrefsWrite; the
// returned state is what the user asked for either way.
func (s *Starred) Toggle(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.load(ctx)
	starred := !slices.Contains(keys, key)
	if starred {
		keys = append(keys, key)
	} else {
		keys = slices.DeleteFunc(keys, func(k string) bool { return k == key })
	}

	data, err := json.Marshal(keys)
	if err != nil {
		return starred, fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	if err := s.store.Set(ctx, StarredKey, data); err != nil {
		s.logger.Warn("saving starred styles failed", "error", err.Error())
		return starred, err
	}
	return starred, nil
}

// load never fails: errors and corrupt data give an empty list.
func (s *Starred) load(ctx context.Context) []string {
	data, ok, err := s.store.Get(ctx, StarredKey)
	if err != nil {
		s.logger.Warn("loading starred styles failed", "error", err.Error())
		return []string{}
	}
	if !ok {
		return []string{}
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		s.logger.Warn("starred styles corrupt, ignoring", "error", err.Error())
		return []string{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
