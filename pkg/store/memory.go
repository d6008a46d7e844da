package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryIndex keeps records in process memory. The server uses it when no
// database is configured so figures of the current process can be listed.
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: make(map[string][]Record)}
}

// Record stores r.
func (m *MemoryIndex) Record(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.Slug] = append(m.records[r.Slug], r)
	return nil
}

// List returns a copy of the records for slug, oldest first.
func (m *MemoryIndex) List(_ context.Context, slug string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]Record(nil), m.records[slug]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Close does nothing.
func (m *MemoryIndex) Close(context.Context) error { return nil }

var _ Index = (*MemoryIndex)(nil)
