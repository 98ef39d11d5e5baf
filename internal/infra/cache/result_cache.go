// File: internal/infra/cache/result_cache.go
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-video-writer/internal/domain/model"
	"ai-video-writer/internal/infra/metrics"
)

// ResultCache memoizes report cells for a short window so identical
// aggregation requests don't repeat rate-limited analytics queries.
// Expired entries count as misses and are removed by a periodic sweep, not
// on read. There is no size bound.
type ResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time
}

type entry struct {
	cell     model.ReportCell
	storedAt time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds the deterministic cell key: channel id, sorted id list, and the
// range bounds. Id order in the input must not change the key.
func Key(channelID string, videoIDs []string, start, end time.Time) string {
	ids := make([]string, len(videoIDs))
	copy(ids, videoIDs)
	sort.Strings(ids)
	return fmt.Sprintf("%s|%s|%s|%s",
		channelID,
		strings.Join(ids, ","),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
}

func (c *ResultCache) Get(key string) (model.ReportCell, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		metrics.IncCacheRequest("report", "miss")
		return model.ReportCell{}, false
	}
	metrics.IncCacheRequest("report", "hit")
	return e.cell, true
}

func (c *ResultCache) Put(key string, cell model.ReportCell) {
	c.mu.Lock()
	c.entries[key] = entry{cell: cell, storedAt: c.now()}
	c.mu.Unlock()
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper lazily evicts expired entries. Run in a goroutine; exits when
// ctx is cancelled.
func (c *ResultCache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *ResultCache) sweep() {
	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}
