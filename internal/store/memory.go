package store

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MemoryKV is a map-backed KV. It enforces the quota like SQLiteKV and is
// used by tests and memory-only runs.
type MemoryKV struct {
	mu    sync.Mutex
	data  map[string]string
	quota int
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV(opts ...Option) *MemoryKV {
	o := buildOptions(opts)
	return &MemoryKV{data: map[string]string{}, quota: o.quota}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) SetMany(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := maps.Clone(m.data)
	maps.Copy(next, entries)
	if m.quota > 0 {
		if size := mapSize(next); size > m.quota {
			return fmt.Errorf("%w: %d bytes, limit %d", ErrQuotaExceeded, size, m.quota)
		}
	}
	m.data = next
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Size(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mapSize(m.data), nil
}

func (m *MemoryKV) Close() error { return nil }

func mapSize(data map[string]string) int {
	n := 0
	for k, v := range data {
		n += entrySize(k, v)
	}
	return n
}
