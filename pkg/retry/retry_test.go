package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func fastConfig(attempts int) Config {
	return Config{Attempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	var retries []int

	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retries = append(retries, attempt)
	}

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, cfg)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_ReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, fastConfig(2))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
}

func TestDo_Permanent(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(errTransient)
	}, fastConfig(5))

	assert.Equal(t, errTransient, err, "permanent error is unwrapped")
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestDo_RetryIf(t *testing.T) {
	calls := 0
	cfg := fastConfig(5)
	cfg.RetryIf = func(err error) bool { return false }

	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, cfg)

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, Config{})
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func(ctx context.Context) error {
		calls++
		return nil
	}, fastConfig(3))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDo_CancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := Config{Attempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour}
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	start := time.Now()
	err := Do(ctx, func(ctx context.Context) error { return errTransient }, cfg)

	assert.ErrorIs(t, err, errTransient)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestConfig_Delay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}
	cfg.normalize()

	assert.Equal(t, 100*time.Millisecond, cfg.delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.delay(1))
	assert.Equal(t, 300*time.Millisecond, cfg.delay(2), "capped by MaxDelay")

	cfg.JitterFactor = 0.5
	for i := 0; i < 20; i++ {
		d := cfg.delay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
