package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryStore keeps entries in process memory. It grows without bound
// unless created with a positive entry limit, in which case the least
// recently used entry is dropped first.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	lru     *lru.Cache[string, Entry]
}

func NewMemoryStore(maxEntries int) (*MemoryStore, error) {
	if maxEntries <= 0 {
		return &MemoryStore{entries: make(map[string]Entry)}, nil
	}

	l, err := lru.New[string, Entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("new memory store: %w", err)
	}
	return &MemoryStore{lru: l}, nil
}

func (m *MemoryStore) Get(_ context.Context, path string) (Entry, bool, error) {
	if m.lru != nil {
		e, ok := m.lru.Get(path)
		return e, ok, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[path]
	return e, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, path string, e Entry) error {
	if m.lru != nil {
		m.lru.Add(path, e)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	if m.lru != nil {
		m.lru.Remove(path)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, path)
	return nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	if m.lru != nil {
		return m.lru.Len(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *MemoryStore) Purge(_ context.Context) error {
	if m.lru != nil {
		m.lru.Purge()
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
