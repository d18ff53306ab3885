package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-matcher/internal/shared/metrics"
)

// RateLimitRule is a token bucket: Rate tokens per second, up to Burst.
type RateLimitRule struct {
	Rate  rate.Limit
	Burst int
}

// PerHour returns a rule admitting n requests per hour with a burst of n.
func PerHour(n int) RateLimitRule {
	if n <= 0 {
		return RateLimitRule{}
	}
	return RateLimitRule{Rate: rate.Limit(float64(n) / time.Hour.Seconds()), Burst: n}
}

type RateLimitConfig struct {
	Rule    RateLimitRule
	KeyFor  func(*gin.Context) string
	Limiter *RateLimiter
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	now     func() time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rate.Limiter),
		now:     now,
	}
}

// RateLimit applies one uniform rule to every route, keyed by client IP
// unless KeyFor says otherwise.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		key := ""
		if cfg.KeyFor != nil {
			key = strings.TrimSpace(cfg.KeyFor(c))
		}
		if key == "" {
			key = strings.TrimSpace(c.ClientIP())
		}
		allowed, retryAfter := cfg.Limiter.Allow(key, cfg.Rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		metrics.IncRateLimited()
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": retryAfterMs,
		})
		c.Abort()
	}
}

// Allow consumes one token for key and reports how long to wait when none is left.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rule.Rate, rule.Burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	reservation := bucket.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Hour
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// Sweep drops buckets that have refilled completely; a full bucket is
// indistinguishable from a fresh one.
func (l *RateLimiter) Sweep() {
	if l == nil {
		return
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.TokensAt(now) >= float64(bucket.Burst()) {
			delete(l.buckets, key)
		}
	}
}

// Len reports the number of tracked client buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// StartJanitor sweeps idle buckets on the given interval until ctx is done.
func (l *RateLimiter) StartJanitor(ctx context.Context, interval time.Duration) {
	if l == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}
