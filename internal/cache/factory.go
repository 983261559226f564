package cache

import (
	"fmt"
	"sort"
	"sync"
)

// Backend constructs a Cache from options.
type Backend func(opts Options) (Cache, error)

var (
	mu       sync.RWMutex
	backends = make(map[string]Backend)
)

// Register makes a backend available under name.
// It panics if the name is already taken or the backend is nil.
func Register(name string, b Backend) {
	mu.Lock()
	defer mu.Unlock()

	if b == nil {
		panic("cache: Register backend is nil")
	}
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("cache: backend %q already registered", name))
	}
	backends[name] = b
}

// New creates a cache with the named backend. When opts.Group is set the
// cache reports hits, misses, evictions and size under that group.
func New(name string, opts Options) (Cache, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown backend %q (registered: %v)", name, Backends())
	}

	if opts.Group == "" {
		return b(opts)
	}

	group := opts.Group
	onEvict := opts.OnEvict
	opts.OnEvict = func(key string, value []byte) {
		EvictionsTotal.WithLabelValues(group).Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}

	inner, err := b(opts)
	if err != nil {
		return nil, err
	}
	return instrument(inner, group), nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
