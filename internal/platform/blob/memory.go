package blob

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	claims  map[string]struct{}
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{objects: map[string][]byte{}, claims: map[string]struct{}{}}
}

// Driver implements Store
func (m *Memory) Driver() Driver { return DriverMemory }

// Claim reserves prefix under the store lock
func (m *Memory) Claim(_ context.Context, prefix string) error {
	k, err := CleanKey(prefix)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.claims[k]; taken {
		return ErrExists
	}
	m.claims[k] = struct{}{}
	return nil
}

// Put stores a copy of r
func (m *Memory) Put(_ context.Context, key string, r io.Reader, _ string) error {
	k, err := CleanKey(key)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[k] = b
	m.mu.Unlock()
	return nil
}

// Get returns a reader over a copy of key
func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	k, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	b, ok := m.objects[k]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(b))), nil
}

// List returns sorted keys under prefix
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Location returns a mem:// URL
func (m *Memory) Location(key string) string { return "mem://" + key }

// Claimed lists claimed prefixes, sorted
func (m *Memory) Claimed() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.claims))
	for k := range m.claims {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
