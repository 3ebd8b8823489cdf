// Package cache provides the bounded, expiring result cache used in front of
// table queries.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"

	"amdashboard/internal/logger"
)

var lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "amdash_cache_lookups_total",
	Help: "Result cache lookups by cache name and outcome.",
}, []string{"cache", "result"})

func init() {
	prometheus.MustRegister(lookups)
}

// Cache memoizes values by key.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
}

// LRU is a fixed capacity cache whose entries expire after a TTL. Inserting
// over capacity evicts the least recently used entry. It is safe for
// concurrent use.
type LRU[V any] struct {
	name string
	lru  *expirable.LRU[string, V]
}

// NewLRU creates a cache holding at most capacity entries for ttl each.
func NewLRU[V any](name string, capacity int, ttl time.Duration) *LRU[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU[V]{
		name: name,
		lru:  expirable.NewLRU[string, V](capacity, nil, ttl),
	}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		lookups.WithLabelValues(c.name, "hit").Inc()
	} else {
		lookups.WithLabelValues(c.name, "miss").Inc()
		logger.Debug().Str("cache", c.name).Str("key", key).Msg("cache miss")
	}
	return v, ok
}

func (c *LRU[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Purge drops every entry.
func (c *LRU[V]) Purge() {
	c.lru.Purge()
}

func (c *LRU[V]) Len() int {
	return c.lru.Len()
}
