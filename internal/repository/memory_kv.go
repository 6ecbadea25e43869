package repository

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/notesmarket/internal/port"
)

type memoryKV struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryKV() port.KVStore {
	return &memoryKV{entries: make(map[string][]byte)}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("key[%s]: %w", key, port.ErrNotFound)
	}

	return bytes.Clone(value), nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = bytes.Clone(value)
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *memoryKV) Update(_ context.Context, key string, fn port.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, found := m.entries[key]

	next, err := fn(bytes.Clone(current), found)
	if err != nil {
		return err
	}

	m.entries[key] = bytes.Clone(next)
	return nil
}

func (m *memoryKV) Close() error {
	return nil
}
