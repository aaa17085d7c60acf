package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var ErrObjectNotFound = errors.New("the requested object does not exist in the store")

// ObjectReader reads whole objects by name.
type ObjectReader interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// ObjectWriter writes whole objects by name, replacing any prior content.
type ObjectWriter interface {
	Put(ctx context.Context, name string, data []byte) error
}

type ObjectReaderWriter interface {
	ObjectReader
	ObjectWriter
}

// MemStore is an in-memory ObjectReaderWriter. It backs tests and the build
// driver's default wiring; real blob or filesystem backends implement the
// same pair of interfaces outside this module.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{objects: map[string][]byte{}}
}

func (m *MemStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = stored
	return nil
}

// Names returns the sorted object names under prefix.
func (m *MemStore) Names(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
