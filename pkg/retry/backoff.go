package retry

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the delay before attempt n (1-based).
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff increases the delay exponentially with each attempt.
type ExponentialBackoff struct {
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay.
	MaxDelay time.Duration
	// Multiplier is the growth factor per attempt.
	Multiplier float64
	// Jitter adds up to this fraction of random variation to each delay.
	Jitter float64
}

// DefaultExponentialBackoff returns an exponential backoff with sensible
// defaults for remote API calls.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// NextDelay returns the delay before the given attempt.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(b.InitialDelay) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}

	if b.Jitter > 0 {
		delay += delay * b.Jitter * rand.Float64()
	}

	return time.Duration(delay)
}

// ConstantBackoff waits the same delay between every attempt.
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns the constant delay.
func (b *ConstantBackoff) NextDelay(int) time.Duration {
	return b.Delay
}
