// Package cache provides the key-value store behind the metadata lookup client.
// Backends are registered by name and selected from configuration.
package cache

import "time"

// EvictCallback is called when an entry is evicted from the cache.
// Backends that expire entries server-side (redis) never call it.
type EvictCallback func(key string, value []byte)

// Logger receives error reports from cache operations.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte)

	// Len returns the number of live entries.
	Len() int

	// Close releases backend resources. It is a no-op for in-memory caches.
	Close() error
}

// Options configures a cache backend.
type Options struct {
	// Size is the maximum number of entries kept by bounded backends.
	Size int

	// TTL is the lifetime of each entry.
	TTL time.Duration

	// OnEvict is called for entries evicted by the memory backend.
	OnEvict EvictCallback

	// Logger receives backend errors. Nil discards them.
	Logger Logger

	// Redis connection settings, used by the "redis" backend.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// KeyPrefix namespaces redis keys. Defaults to "msc:".
	KeyPrefix string

	// Group, when set, wraps the cache with Prometheus instrumentation labelled cache=<Group>.
	Group string
}
