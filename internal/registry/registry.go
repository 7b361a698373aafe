package registry

import (
	"sort"
	"sync"
)

// Registry stores named network parts keyed by their config key.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{items: map[string]T{}}
}

// Get returns the item for a key, if present.
func (r *Registry[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[key]
	return item, ok
}

// Put inserts an item and reports false when the key was already taken.
func (r *Registry[T]) Put(key string, item T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[key]; exists {
		return false
	}
	r.items[key] = item
	return true
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Keys returns all keys sorted.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	r.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// List returns all items sorted by key.
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	snapshot := make([]T, 0, len(keys))
	for _, key := range keys {
		snapshot = append(snapshot, r.items[key])
	}
	return snapshot
}
