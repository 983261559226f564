package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache is a bounded LRU with per-entry TTL.
type memoryCache struct {
	lru *lru.LRU[string, []byte]
}

func newMemoryCache(opts Options) (Cache, error) {
	size := opts.Size
	if size <= 0 {
		size = 1000
	}
	var onEvict func(string, []byte)
	if opts.OnEvict != nil {
		onEvict = func(key string, value []byte) {
			opts.OnEvict(key, value)
		}
	}
	return &memoryCache{lru: lru.NewLRU[string, []byte](size, onEvict, opts.TTL)}, nil
}

func (m *memoryCache) Get(key string) ([]byte, bool) { return m.lru.Get(key) }

func (m *memoryCache) Set(key string, value []byte) { m.lru.Add(key, value) }

func (m *memoryCache) Len() int { return m.lru.Len() }

func (m *memoryCache) Close() error { return nil }
