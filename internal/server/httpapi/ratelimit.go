package httpapi

import (
	"sync"
	"time"
)

// tokenBucket tracks the remaining request budget of one client IP.
type tokenBucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// IPBuckets is a per-IP token bucket rate limiter. Buckets are created
// lazily on first sight of an IP and refilled one token per interval up
// to burst.
type IPBuckets struct {
	buckets  sync.Map
	burst    int
	interval time.Duration
}

func NewIPBuckets(burst int, refillInterval time.Duration) *IPBuckets {
	return &IPBuckets{
		burst:    burst,
		interval: refillInterval,
	}
}

// Allow reports whether ip may perform a request now and consumes one
// token if so.
func (rl *IPBuckets) Allow(ip string) bool {
	now := time.Now()

	val, _ := rl.buckets.LoadOrStore(ip, &tokenBucket{
		tokens:     rl.burst,
		lastRefill: now,
	})

	tb := val.(*tokenBucket)

	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill)
	if elapsed >= rl.interval {
		refills := int(elapsed / rl.interval)
		tb.tokens += refills
		if tb.tokens > rl.burst {
			tb.tokens = rl.burst
		}
		tb.lastRefill = now
	}

	if tb.tokens <= 0 {
		return false
	}

	tb.tokens--
	return true
}
