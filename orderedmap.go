package asciify

import (
	"sync"
)

// OrderedMap is a map that remembers insertion order.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
	mu     sync.RWMutex
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keys:   make([]K, 0),
		values: make(map[K]V),
	}
}

// Set adds or replaces the value for key. A replaced key keeps its
// original position.
func (om *OrderedMap[K, V]) Set(key K, value V) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// Get retrieves the value for key.
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	om.mu.RLock()
	defer om.mu.RUnlock()

	val, exists := om.values[key]
	return val, exists
}

// Keys returns the keys in insertion order.
func (om *OrderedMap[K, V]) Keys() []K {
	om.mu.RLock()
	defer om.mu.RUnlock()

	return append([]K{}, om.keys...)
}

// Iterate calls f for each pair in insertion order.
func (om *OrderedMap[K, V]) Iterate(f func(key K, value V)) {
	om.mu.RLock()
	defer om.mu.RUnlock()

	for _, k := range om.keys {
		f(k, om.values[k])
	}
}

// Len returns the number of entries.
func (om *OrderedMap[K, V]) Len() int {
	om.mu.RLock()
	defer om.mu.RUnlock()

	return len(om.keys)
}
