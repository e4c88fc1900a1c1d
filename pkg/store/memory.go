package store

import (
	"context"
	"slices"
	"sync"

	"github.com/mhalter/nodeloom/pkg/document"
)

// Memory is an in-process Store. Documents are kept as serialized bytes so
// loads return independent copies; callers can freely mutate what they get
// back.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Load returns the document stored under name.
func (m *Memory) Load(ctx context.Context, name string) (*document.Document, error) {
	m.mu.RLock()
	data, ok := m.docs[name]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return document.UnmarshalDocument(data)
}

// Save stores the document under name.
func (m *Memory) Save(ctx context.Context, name string, d *document.Document) error {
	data, err := document.MarshalDocument(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[name] = data
	m.mu.Unlock()
	return nil
}

// Delete removes the document under name.
func (m *Memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	delete(m.docs, name)
	m.mu.Unlock()
	return nil
}

// List returns the stored names in lexicographic order.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	m.mu.RUnlock()
	slices.Sort(names)
	return names, nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
