package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for pacing outbound requests.
type Limiter interface {
	// Allow checks if a request is allowed right now.
	Allow() bool
	// Wait blocks until the limiter allows another request.
	Wait()
	// Reset resets the limiter state.
	Reset()
}

// Interval paces calls so that consecutive requests are at least one interval
// apart. The first request passes immediately. This matches the remote
// catalog's expectation of a fixed inter-request delay during pagination.
type Interval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewInterval creates an interval pacer. A non-positive interval disables
// pacing entirely.
func NewInterval(interval time.Duration) *Interval {
	return &Interval{interval: interval}
}

// Allow reports whether enough time has passed since the previous request,
// and records the request when it has.
func (i *Interval) Allow() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	if i.last.IsZero() || now.Sub(i.last) >= i.interval {
		i.last = now
		return true
	}
	return false
}

// Wait sleeps out the remainder of the interval, then records the request.
func (i *Interval) Wait() {
	i.mu.Lock()
	var sleep time.Duration
	if !i.last.IsZero() {
		sleep = i.interval - time.Since(i.last)
	}
	i.mu.Unlock()

	if sleep > 0 {
		time.Sleep(sleep)
	}

	i.mu.Lock()
	i.last = time.Now()
	i.mu.Unlock()
}

// Reset clears the pacing state so the next request passes immediately.
func (i *Interval) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last = time.Time{}
}

// TokenBucket implements a token bucket rate limiter. Used to cap the total
// request volume of the service-level crawl endpoint.
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter.
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available.
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset resets the token bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens based on elapsed time.
func (tb *TokenBucket) refill() {
	if time.Since(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = time.Now()
	}
}
