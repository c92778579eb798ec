package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Registry holds the service-wide counters exposed on the health endpoint.
type Registry struct {
	NearbyQueries   Counter
	Evaluations     Counter
	CartEstimates   Counter
	SlotQueries     Counter
	CacheHits       Counter
	CacheMisses     Counter
	CacheDegraded   Counter
	Invalidations   Counter

	startedAt time.Time
}

func NewRegistry() *Registry {
	return &Registry{startedAt: time.Now()}
}

func (r *Registry) Uptime() time.Duration {
	return time.Since(r.startedAt)
}

// Snapshot returns the current counter values for reporting.
func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"nearby_queries": r.NearbyQueries.Load(),
		"evaluations":    r.Evaluations.Load(),
		"cart_estimates": r.CartEstimates.Load(),
		"slot_queries":   r.SlotQueries.Load(),
		"cache_hits":     r.CacheHits.Load(),
		"cache_misses":   r.CacheMisses.Load(),
		"cache_degraded": r.CacheDegraded.Load(),
		"invalidations":  r.Invalidations.Load(),
	}
}
