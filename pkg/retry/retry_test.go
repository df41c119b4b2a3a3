package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhsmonitor/pkg/logger"
)

func fastConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("always failing")
	calls := 0
	err := Do(func() error {
		calls++
		return boom
	}, fastConfig(3))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsRetryIf(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0

	cfg := fastConfig(5)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, fatal) }

	err := Do(func() error {
		calls++
		return fatal
	}, cfg)

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls, "non-retryable errors return immediately")
}

func TestDoContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := &Config{
		MaxAttempts: 10,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
		Context:     ctx,
		Logger:      logger.NewTestLogger(),
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(func() error { return errors.New("transient") }, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "done", nil
	}, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestDoOnRetryCallback(t *testing.T) {
	var attempts []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
	}

	_ = Do(func() error { return errors.New("fail") }, cfg)
	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestDefaultRetryIf(t *testing.T) {
	assert.False(t, DefaultRetryIf(nil))
	assert.False(t, DefaultRetryIf(context.Canceled))
	assert.False(t, DefaultRetryIf(context.DeadlineExceeded))
	assert.True(t, DefaultRetryIf(errors.New("anything else")))
}

func TestExponentialBackoff(t *testing.T) {
	b := &ExponentialBackoff{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(3))
	assert.Equal(t, time.Second, b.NextDelay(10), "delay is capped at MaxDelay")
}

func TestExponentialBackoffJitter(t *testing.T) {
	b := &ExponentialBackoff{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		Jitter:       0.5,
	}

	delay := b.NextDelay(1)
	assert.GreaterOrEqual(t, delay, 50*time.Millisecond)
	assert.LessOrEqual(t, delay, 150*time.Millisecond)
}
