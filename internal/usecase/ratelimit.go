package usecase

import (
	"sync"
	"time"
)

// ipLimiter caps room creation per client address over a fixed window.
// Counters are evicted as soon as their window lapses, so memory stays
// bounded by the number of addresses active within one window.
type ipLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	buckets map[string]*ipBucket
}

type ipBucket struct {
	start time.Time
	count int
}

func newIPLimiter(limit int, window time.Duration, now func() time.Time) *ipLimiter {
	return &ipLimiter{
		limit:   limit,
		window:  window,
		now:     now,
		buckets: make(map[string]*ipBucket),
	}
}

// Allow - records one attempt for ip and reports whether it is within the
// limit for the current window.
func (that *ipLimiter) Allow(ip string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()

	for addr, bucket := range that.buckets {
		if now.Sub(bucket.start) >= that.window {
			delete(that.buckets, addr)
		}
	}

	bucket, ok := that.buckets[ip]
	if !ok {
		that.buckets[ip] = &ipBucket{start: now, count: 1}
		return true
	}

	if bucket.count >= that.limit {
		return false
	}

	bucket.count++

	return true
}
