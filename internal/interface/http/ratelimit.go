package http

import (
	"math"
	"sync"
	"time"

	"github.com/yanqian/crop-advisor/internal/infra/config"
)

const sweepInterval = time.Minute

// RateLimiter hands out per-client token buckets. The form page and the
// recommendation API share one limiter so a client cannot double its budget
// by switching surfaces. A nil limiter allows everything.
type RateLimiter struct {
	perSecond float64
	burst     float64
	now       func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens  float64
	updated time.Time
}

// NewRateLimiter returns nil when limiting is disabled.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		perSecond: float64(cfg.RequestsPerMinute) / 60,
		burst:     float64(burst),
		now:       time.Now,
		buckets:   make(map[string]*bucket),
	}
}

// Allow spends one token from key's bucket.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, updated: now}
		l.buckets[key] = b
	} else if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+elapsed*l.perSecond)
		b.updated = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweepLocked drops buckets that would be full again; recreating them is
// equivalent.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if b.tokens+now.Sub(b.updated).Seconds()*l.perSecond >= l.burst {
			delete(l.buckets, key)
		}
	}
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
