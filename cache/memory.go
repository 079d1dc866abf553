// Package cache provides in-memory cache implementations for Aegis
// permission documents and their projections.
package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory per-user cache with TTL-based expiration. Each
// instance caches one value shape; the engine owns one instance per
// cached projection.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
	ttl     time.Duration
	maxSize int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Option configures a memory cache.
type Option func(*config)

type config struct {
	ttl     time.Duration
	maxSize int
}

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory[V any](opts ...Option) *Memory[V] {
	cfg := config{
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Memory[V]{
		entries: make(map[string]*entry[V]),
		ttl:     cfg.ttl,
		maxSize: cfg.maxSize,
	}
}

// Get returns the cached value for a user, if present and fresh.
func (m *Memory[V]) Get(_ context.Context, userID string) (V, bool) {
	var zero V
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores a value for a user.
func (m *Memory[V]) Set(_ context.Context, userID string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			// Evict one arbitrary entry.
			m.evictOne()
		}
	}

	m.entries[userID] = &entry[V]{
		value:     value,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// Invalidate removes the cached value for a user.
func (m *Memory[V]) Invalidate(_ context.Context, userID string) {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()
}

// Len returns the number of live entries, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory[V]) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory[V]) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}
