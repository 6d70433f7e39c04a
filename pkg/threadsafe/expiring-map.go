package threadsafe

import (
	"sync"
	"time"
)

type expiringEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// ExpiringMap is a mutex-guarded map whose entries disappear after fixed TTL.
// Expired entries are dropped lazily on Get and in bulk by Cleanup.
type ExpiringMap[K comparable, V any] struct {
	inner map[K]expiringEntry[V]
	ttl   time.Duration
	mux   *sync.Mutex
	now   func() time.Time
}

func NewExpiringMap[K comparable, V any](ttl time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		inner: make(map[K]expiringEntry[V]),
		ttl:   ttl,
		mux:   &sync.Mutex{},
		now:   time.Now,
	}
}

func (m *ExpiringMap[K, V]) Set(key K, value V) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.inner[key] = expiringEntry[V]{
		value:     value,
		expiresAt: m.now().Add(m.ttl),
	}
}

func (m *ExpiringMap[K, V]) Get(key K) (V, bool) {
	m.mux.Lock()
	defer m.mux.Unlock()
	entry, ok := m.inner[key]
	if !ok {
		var zero V
		return zero, false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.inner, key)
		var zero V
		return zero, false
	}
	return entry.value, true
}

func (m *ExpiringMap[K, V]) Delete(key K) {
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.inner, key)
}

func (m *ExpiringMap[K, V]) Clear() {
	m.mux.Lock()
	defer m.mux.Unlock()
	clear(m.inner)
}

// Cleanup removes every expired entry and reports how many were dropped.
func (m *ExpiringMap[K, V]) Cleanup() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.inner {
		if now.After(entry.expiresAt) {
			delete(m.inner, key)
			removed++
		}
	}
	return removed
}
