package cache

import "sync"

// Memo holds a single lazily computed value until cleared.
type Memo[V any] struct {
	mu    sync.Mutex
	value V
	set   bool
}

// Get returns the memoized value, if any.
func (m *Memo[V]) Get() (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.set
}

// GetOrCompute returns the memoized value, computing and storing it first if unset.
// compute runs under the memo's lock, so concurrent callers compute once.
func (m *Memo[V]) GetOrCompute(compute func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		m.value = compute()
		m.set = true
	}
	return m.value
}

// Clear forgets the memoized value.
func (m *Memo[V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero V
	m.value = zero
	m.set = false
}
