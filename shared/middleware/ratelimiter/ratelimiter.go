// Package ratelimiter provides an in-process token bucket keyed by an
// arbitrary identity (email, IP, "global").
package ratelimiter

import (
	"math"
	"sync"
	"time"
)

// bucket is a single token bucket.
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64 // tokens per second
	lastRefill time.Time
	lastSeen   time.Time
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (b *bucket) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.lastSeen)
}

// UserRateLimiter holds one bucket per identity. Buckets idle for longer than
// the expiration time are dropped by a background janitor.
type UserRateLimiter struct {
	mu             sync.RWMutex
	buckets        map[string]*bucket
	rate           float64
	capacity       float64
	expirationTime time.Duration
	now            func() time.Time
	stop           chan struct{}
	stopOnce       sync.Once
}

// New creates a limiter allowing rate tokens per second with the given burst.
func New(rate float64, capacity float64, expirationTime time.Duration) *UserRateLimiter {
	rl := &UserRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
		now:            time.Now,
		stop:           make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

func (rl *UserRateLimiter) janitor() {
	interval := rl.expirationTime / 2
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

func (rl *UserRateLimiter) evictIdle() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, b := range rl.buckets {
		if b.idleSince(now) > rl.expirationTime {
			delete(rl.buckets, id)
		}
	}
}

func (rl *UserRateLimiter) getBucket(identity string) *bucket {
	rl.mu.RLock()
	b, ok := rl.buckets[identity]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.buckets[identity]; ok {
		return b
	}
	now := rl.now()
	b = &bucket{
		tokens:     rl.capacity,
		capacity:   rl.capacity,
		rate:       rl.rate,
		lastRefill: now,
		lastSeen:   now,
	}
	rl.buckets[identity] = b
	return b
}

// Allow reports whether identity may proceed and consumes a token if so.
func (rl *UserRateLimiter) Allow(identity string) bool {
	return rl.getBucket(identity).allow(rl.now())
}

// RetryAfter is how long an exhausted identity waits for its next token.
func (rl *UserRateLimiter) RetryAfter() time.Duration {
	if rl.rate <= 0 {
		return rl.expirationTime
	}
	return time.Duration(math.Round(float64(time.Second) / rl.rate))
}

// Stop terminates the janitor goroutine.
func (rl *UserRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func OnceInSecond() *UserRateLimiter { return New(1, 1, time.Hour) }
func Rps10() *UserRateLimiter        { return New(10, 10, time.Hour) }
func Rps100() *UserRateLimiter       { return New(100, 100, time.Hour) }
func Rps1000() *UserRateLimiter      { return New(1000, 1000, time.Hour) }
