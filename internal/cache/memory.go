package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process cache backed by an expirable LRU. The TTL applies
// cache-wide; wiring creates one instance per keyspace (nearby search,
// feasibility) so each gets its own lifetime.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range m.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.lru.Remove(key)
		}
	}
	return nil
}
