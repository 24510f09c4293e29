// Package prefs persists user preferences, currently the list of starred
// style profiles. Read failures and corrupt data yield an empty list; they
// are logged and never returned as fatal.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for preference persistence.
var (
	ErrPrefsRead  = errors.New("reading preferences")
	ErrPrefsWrite = errors.New("writing preferences")
)

// Store is a small key-value store. Get reports false for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// FileStore keeps all keys in one JSON object on disk.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultFilePath returns the preferences file under the user config dir.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-md2wechat", "prefs.json"), nil
}

func (s *FileStore) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path) // #nosec G304 -- path from configuration
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	all := map[string]json.RawMessage{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Get returns the raw JSON stored under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrPrefsRead, s.Path, err)
	}
	v, ok := all[key]
	return v, ok, nil
}

// Set stores value, which must be valid JSON, under key. A corrupt file is
// replaced.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("%w: value for %q is not JSON", ErrPrefsWrite, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		all = map[string]json.RawMessage{}
	}
	all[key] = json.RawMessage(value)

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	return nil
}

// RedisClient is the subset of the go-redis client used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps keys in Redis under a prefix, so several editors can
// share their preferences.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", ErrPrefsRead, addr, err)
	}
	return client, nil
}

// Get returns the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPrefsRead, err)
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPrefsWrite, err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return append([]byte(nil), v...), ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Compile-time interface checks.
var (
	_ Store       = (*FileStore)(nil)
	_ Store       = (*RedisStore)(nil)
	_ Store       = (*MemoryStore)(nil)
	_ RedisClient = (*redis.Client)(nil)
)
