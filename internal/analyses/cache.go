package analyses

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"resume-matcher/internal/shared/util"
)

// cacheKeySeparator joins the two raw inputs before hashing.
const cacheKeySeparator = "\x00"

// CacheKey derives the cache key from the exact, unnormalized inputs.
func CacheKey(resume, jobDescription string) string {
	return util.HashKey(resume + cacheKeySeparator + jobDescription)
}

// Cache stores analysis results with a time-to-live.
type Cache interface {
	Get(key string) (Result, bool)
	Put(key string, result Result, ttl time.Duration)
}

// NoopCache is used when caching is disabled.
type NoopCache struct{}

func (NoopCache) Get(string) (Result, bool)         { return Result{}, false }
func (NoopCache) Put(string, Result, time.Duration) {}

type cacheEntry struct {
	result    Result
	expiresAt time.Time
}

// MemoryCache is an in-process expiring store backed by ttlcache. The store
// evicts on wall-clock time; the cache's own clock decides visibility, so an
// expired entry is never returned even before the store drops it.
type MemoryCache struct {
	items *ttlcache.Cache[string, cacheEntry]
	now   func() time.Time
}

// NewMemoryCache constructs a MemoryCache. A nil clock uses time.Now.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		items: ttlcache.New[string, cacheEntry](
			ttlcache.WithDisableTouchOnHit[string, cacheEntry](),
		),
		now: now,
	}
}

// Get returns the cached result for key if present and unexpired.
func (c *MemoryCache) Get(key string) (Result, bool) {
	item := c.items.Get(key)
	if item == nil {
		return Result{}, false
	}
	entry := item.Value()
	if !c.now().Before(entry.expiresAt) {
		c.items.Delete(key)
		return Result{}, false
	}
	return entry.result.clone(), true
}

// Put stores result under key, replacing any previous entry.
func (c *MemoryCache) Put(key string, result Result, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.items.Set(key, cacheEntry{
		result:    result.clone(),
		expiresAt: c.now().Add(ttl),
	}, ttl)
}

// Len reports the number of stored entries, including expired ones not yet purged.
func (c *MemoryCache) Len() int {
	return c.items.Len()
}

// Sweep removes every expired entry.
func (c *MemoryCache) Sweep() {
	c.items.DeleteExpired()
	now := c.now()
	for key, item := range c.items.Items() {
		if !now.Before(item.Value().expiresAt) {
			c.items.Delete(key)
		}
	}
}

// StartJanitor runs the store's expiry loop until ctx is done.
func (c *MemoryCache) StartJanitor(ctx context.Context) {
	go c.items.Start()
	go func() {
		<-ctx.Done()
		c.items.Stop()
	}()
}
