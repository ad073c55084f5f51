// Package store holds ordered, process-lifetime collections of records.
package store

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound indicates no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a record with the same id is already stored.
	ErrDuplicate = errors.New("record already exists")
)

// Memory keeps records in insertion order. Lookups scan linearly by the id
// returned from the key func. Records are stored and returned by value.
type Memory[T any] struct {
	mu    sync.RWMutex
	key   func(T) string
	items []T
}

// New creates a store pre-populated with seed.
func New[T any](key func(T) string, seed ...T) *Memory[T] {
	m := &Memory[T]{key: key}
	m.Reset(seed...)
	return m
}

// Reset discards all records and loads seed in order.
func (m *Memory[T]) Reset(seed ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(make([]T, 0, len(seed)), seed...)
}

// List returns a copy of every record in insertion order.
func (m *Memory[T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Get returns the record with the given id.
func (m *Memory[T]) Get(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

// Has reports whether a record with id is stored.
func (m *Memory[T]) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// Len returns the number of stored records.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Append adds rec at the end.
func (m *Memory[T]) Append(rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(m.key(rec)) >= 0 {
		return ErrDuplicate
	}
	m.items = append(m.items, rec)
	return nil
}

// Replace overwrites the stored record that has rec's id, keeping its position.
func (m *Memory[T]) Replace(rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(m.key(rec))
	if i < 0 {
		return ErrNotFound
	}
	m.items[i] = rec
	return nil
}

// Delete removes the record with id by position.
func (m *Memory[T]) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

// indexOf expects m.mu to be held.
func (m *Memory[T]) indexOf(id string) int {
	for i, rec := range m.items {
		if m.key(rec) == id {
			return i
		}
	}
	return -1
}
