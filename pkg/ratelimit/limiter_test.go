package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalFirstCallPassesImmediately(t *testing.T) {
	limiter := NewInterval(time.Hour)

	start := time.Now()
	limiter.Wait()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestIntervalAllow(t *testing.T) {
	limiter := NewInterval(50 * time.Millisecond)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "second call inside the interval is rejected")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.Allow())
}

func TestIntervalWaitPacesCalls(t *testing.T) {
	limiter := NewInterval(50 * time.Millisecond)

	limiter.Wait()
	start := time.Now()
	limiter.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestIntervalReset(t *testing.T) {
	limiter := NewInterval(time.Hour)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	limiter.Reset()
	assert.True(t, limiter.Allow())
}

func TestIntervalZeroDisablesPacing(t *testing.T) {
	limiter := NewInterval(0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		limiter.Wait()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestTokenBucketAllow(t *testing.T) {
	bucket := NewTokenBucket(2, time.Hour)

	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow(), "bucket exhausted")

	bucket.Reset()
	assert.True(t, bucket.Allow())
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(1, 50*time.Millisecond)

	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, bucket.Allow())
}
