package mirror

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. Quota, when positive,
// caps the total number of stored bytes the way a browser caps local
// storage.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[string][]byte
	size  int
	Quota int
}

// NewMemoryBackend returns an empty, unbounded MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.size - len(m.data[key]) + len(value)
	if m.Quota > 0 && next > m.Quota {
		return ErrStorageFull
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.size = next
	return nil
}
