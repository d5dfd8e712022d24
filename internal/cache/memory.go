package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the in-process cache when no size is configured.
const DefaultMemorySize = 1024

// Memory is an in-process Cache backed by a size-bounded LRU whose entries
// expire after maxTTL. A shorter per-entry ttl passed to Set is also honored.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// NewMemory returns a cache holding at most size entries, each living at most
// maxTTL. A non-positive size uses DefaultMemorySize; a non-positive maxTTL
// keeps entries until they are evicted by size.
func NewMemory(size int, maxTTL time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if maxTTL < 0 {
		maxTTL = 0
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return "", ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return "", ErrMiss
	}
	return e.value, nil
}

// Set stores value. A non-positive ttl falls back to the cache-wide maxTTL.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

// Len reports the number of entries currently held, including any expired
// entries not yet purged.
func (m *Memory) Len() int {
	return m.lru.Len()
}
