package docstore

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps documents in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]bool
	docs       map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: map[string]bool{RootNamespace: true},
		docs:       make(map[string][]byte),
	}
}

// EnsureNamespace records the namespace
func (m *MemoryStore) EnsureNamespace(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[name] = true
	return nil
}

// Write stores a copy of content under namespace/key
func (m *MemoryStore) Write(namespace, key string, content []byte) error {
	p, err := documentPath(namespace, key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[namespace] = true
	m.docs[p] = append([]byte(nil), content...)
	return nil
}

// Read returns a copy of the document stored under namespace/key
func (m *MemoryStore) Read(namespace, key string) ([]byte, error) {
	p, err := documentPath(namespace, key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// HasNamespace reports whether the namespace was created or written to
func (m *MemoryStore) HasNamespace(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namespaces[name]
}

// Keys returns the slash-joined paths of all stored documents, sorted
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
