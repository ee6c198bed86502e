package aggregate

import (
	"sync"
	"time"

	"github.com/sells-group/abm-reporter/internal/model"
)

// DefaultCacheTTL bounds how long one aggregated result is served before a
// fresh provider fan-out.
const DefaultCacheTTL = 5 * time.Minute

// resultCache memoizes the single fully-aggregated account list per process.
// One entry only: the cache is not keyed by date range, so within the TTL
// window every caller gets the result computed for whichever range triggered
// the last fetch.
type resultCache struct {
	mu       sync.RWMutex
	entry    *model.AccountList
	cachedAt time.Time
	ttl      time.Duration
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &resultCache{ttl: ttl}
}

// Get returns the cached list when present and younger than the TTL,
// nil otherwise.
func (c *resultCache) Get(now time.Time) *model.AccountList {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || now.Sub(c.cachedAt) >= c.ttl {
		return nil
	}
	return c.entry
}

// Put overwrites the cached entry and its timestamp.
func (c *resultCache) Put(list *model.AccountList, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = list
	c.cachedAt = now
}

// Invalidate clears the entry unconditionally; the next Get misses.
func (c *resultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
	c.cachedAt = time.Time{}
}
