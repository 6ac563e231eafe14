package recordstore

import (
	"context"
	"sync"
)

var _ BlobStore = (*MemoryStore)(nil)

// MemoryStore backend en memoria (desarrollo y tests).
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore construye un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get devuelve una copia del blob o (nil, nil) si no existe.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put guarda una copia del blob.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	v := make([]byte, len(data))
	copy(v, data)
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return nil
}
