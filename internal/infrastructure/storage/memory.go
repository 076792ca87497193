package storage

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memorySweepInterval = time.Minute

// Memory is an in-process Store backed by go-cache. It is the default
// backend for single-instance deployments and for tests.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates a Memory store whose entries default to defaultTTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, memorySweepInterval)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, value, ttl)
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.c.Delete(key)
}
