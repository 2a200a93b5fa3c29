package storage

import (
	"context"
	"errors"
	"sync"

	masterdataapp "github.com/erp/backoffice/internal/application/masterdata"
	"github.com/erp/backoffice/internal/domain/shared"
)

var _ masterdataapp.ObjectStorage = (*MemoryStorage)(nil)

// MemoryStorage keeps objects in process memory. It is used when object
// storage is disabled and in tests; contents are lost on restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStorage creates an empty in-memory object store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

// Put stores a copy of data under key
func (m *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// Get returns a copy of the object stored under key
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, shared.NewDomainErrorf("NOT_FOUND", "Stored file %s not found", key)
	}
	return append([]byte(nil), obj.data...), nil
}

// Delete removes key
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ContentType returns the stored content type of key
func (m *MemoryStorage) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}

// Len returns the number of stored objects
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
