package holidays

import (
	"sync"
	"time"
)

const defaultCacheTTL = 24 * time.Hour

type cachedMonth struct {
	data      *MonthInfo
	fetchedAt time.Time
}

// monthCache keeps fetched months for a limited time
type monthCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cachedMonth
	now     func() time.Time
}

func newMonthCache(ttl time.Duration) *monthCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &monthCache{
		ttl:     ttl,
		entries: make(map[string]cachedMonth),
		now:     time.Now,
	}
}

func (c *monthCache) get(year int, month time.Month) (*MonthInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.entries[monthKey(year, month)]
	if !ok || c.now().Sub(cached.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cached.data, true
}

func (c *monthCache) put(monthInfo *MonthInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[monthKey(monthInfo.Year, monthInfo.Month)] = cachedMonth{
		data:      monthInfo,
		fetchedAt: c.now(),
	}
}

func (c *monthCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cachedMonth)
}

func (c *monthCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
