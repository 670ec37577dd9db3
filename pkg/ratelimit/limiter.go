package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// bucket is one key's token bucket. Guarded by Limiter.mu.
type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Decision is the outcome of taking a token.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when Allowed
}

// Limiter keeps a token bucket per key
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate float64 // tokens per second
	ttl        time.Duration
	now        func() time.Time
}

// NewLimiter creates a limiter allowing bursts of capacity and refillRate requests per
// second per key. Buckets idle for longer than ttl are dropped by Sweep.
func NewLimiter(capacity int, refillRate float64, ttl time.Duration) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Take consumes a token for key if one is available
func (l *Limiter) Take(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.capacity), lastRefill: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = math.Min(float64(l.capacity), b.tokens+elapsed*l.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens--
		return Decision{Allowed: true, Limit: l.capacity, Remaining: int(b.tokens)}
	}
	return Decision{Limit: l.capacity, RetryAfter: l.untilNextToken(b.tokens)}
}

func (l *Limiter) untilNextToken(tokens float64) time.Duration {
	if l.refillRate <= 0 {
		return time.Hour
	}
	return time.Duration((1.0 - tokens) / l.refillRate * float64(time.Second))
}

// Reset refills the bucket for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets idle for longer than the ttl and reports how many it removed
func (l *Limiter) Sweep() int {
	if l.ttl <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) > l.ttl {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets every ttl until ctx is done
func (l *Limiter) Run(ctx context.Context) {
	if l.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
