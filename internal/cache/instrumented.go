package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache metrics, labelled with the Group from Options.
var (
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"cache"},
	)

	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"cache"},
	)

	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries evicted from the cache.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(HitsTotal, MissesTotal, EvictionsTotal)
}

var (
	sizeGaugesMu sync.Mutex
	sizeGauges   = make(map[string]prometheus.Collector)
	// sizeRegisterer is swapped by tests for an isolated registry.
	sizeRegisterer prometheus.Registerer = prometheus.DefaultRegisterer
)

// instrumentedCache counts hits and misses and exposes the size of inner as a
// gauge evaluated at scrape time.
type instrumentedCache struct {
	inner Cache
	group string
}

func instrument(inner Cache, group string) *instrumentedCache {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "cache_entries",
		Help:        "Current number of entries in the cache.",
		ConstLabels: prometheus.Labels{"cache": group},
	}, func() float64 { return float64(inner.Len()) })

	sizeGaugesMu.Lock()
	if old, ok := sizeGauges[group]; ok {
		sizeRegisterer.Unregister(old)
	}
	sizeGauges[group] = gauge
	_ = sizeRegisterer.Register(gauge)
	sizeGaugesMu.Unlock()

	return &instrumentedCache{inner: inner, group: group}
}

func (c *instrumentedCache) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		HitsTotal.WithLabelValues(c.group).Inc()
	} else {
		MissesTotal.WithLabelValues(c.group).Inc()
	}
	return val, ok
}

func (c *instrumentedCache) Set(key string, value []byte) { c.inner.Set(key, value) }

func (c *instrumentedCache) Len() int { return c.inner.Len() }

// Close drops the size gauge and closes the wrapped cache.
func (c *instrumentedCache) Close() error {
	sizeGaugesMu.Lock()
	if g, ok := sizeGauges[c.group]; ok {
		sizeRegisterer.Unregister(g)
		delete(sizeGauges, c.group)
	}
	sizeGaugesMu.Unlock()
	return c.inner.Close()
}
