package syncmap

import "sync"

// Map is a thread-safe map that never shrinks
type Map[K comparable, V any] struct {
	m   map[K]V
	mux sync.RWMutex
}

// Get returns a value from the map
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	v, ok := m.m[k]
	return v, ok
}

// PutIfAbsent stores v unless k is already present, it returns the retained value
func (m *Map[K, V]) PutIfAbsent(k K, v V) V {
	m.mux.Lock()
	defer m.mux.Unlock()
	if prev, ok := m.m[k]; ok {
		return prev
	}
	m.m[k] = v
	return v
}

// GetOrCompute returns the value stored under k, computing and storing it when absent.
// compute runs without the lock held, so concurrent first callers may compute redundantly;
// only the first stored value is retained and returned to every caller.
// A failed computation is not stored.
func (m *Map[K, V]) GetOrCompute(k K, compute func() (V, error)) (V, error) {
	if v, ok := m.Get(k); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	return m.PutIfAbsent(k, v), nil
}

// Len returns number of entries
func (m *Map[K, V]) Len() int {
	m.mux.RLock()
	defer m.mux.RUnlock()
	return len(m.m)
}

// New creates a map
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}
