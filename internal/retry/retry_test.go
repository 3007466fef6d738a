package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/julianstephens/salesops/internal/clock"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// failing returns an operation that fails n times before succeeding.
func failing(n int, calls *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *calls <= n {
			return "", fmt.Errorf("attempt %d: connection reset", *calls)
		}
		return "ok", nil
	}
}

func TestValue_SucceedsAfterFailures(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		attempts int
		delay    time.Duration
	}{
		{name: "first try", failures: 0, attempts: 3, delay: time.Second},
		{name: "one failure", failures: 1, attempts: 3, delay: time.Second},
		{name: "two failures", failures: 2, attempts: 3, delay: time.Second},
		{name: "four failures of five", failures: 4, attempts: 5, delay: 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := clock.Fake(epoch)
			calls := 0
			policy := Policy{MaxAttempts: tt.attempts, InitialDelay: tt.delay, Clock: clk}

			type outcome struct {
				value string
				err   error
			}
			done := make(chan outcome, 1)
			go func() {
				v, err := Value(context.Background(), policy, failing(tt.failures, &calls))
				done <- outcome{v, err}
			}()

			wait := tt.delay
			for i := 0; i < tt.failures; i++ {
				clk.WaitForTimers(1)
				clk.Advance(wait - time.Millisecond)
				require.Equal(t, 1, clk.PendingCount(), "backoff %d ended early", i+1)
				clk.Advance(time.Millisecond)
				wait *= 2
			}

			got := <-done
			require.NoError(t, got.err)
			assert.Equal(t, "ok", got.value)
			assert.Equal(t, tt.failures+1, calls)

			// delay·(2^k − 1) for k failures
			want := tt.delay * time.Duration((1<<tt.failures)-1)
			assert.Equal(t, want, clk.Now().Sub(epoch))
		})
	}
}

func TestValue_ExhaustedReturnsLastError(t *testing.T) {
	clk := clock.Fake(epoch)
	errs := []error{errors.New("first"), errors.New("second"), errors.New("third")}
	calls := 0

	done := make(chan error, 1)
	go func() {
		done <- Do(context.Background(), Policy{MaxAttempts: 3, InitialDelay: time.Second, Clock: clk},
			func(context.Context) error {
				err := errs[calls]
				calls++
				return err
			})
	}()

	clk.WaitForTimers(1)
	clk.Advance(time.Second)
	clk.WaitForTimers(1)
	clk.Advance(2 * time.Second)

	err := <-done
	assert.Same(t, errs[2], err, "last error must be returned unchanged")
	assert.Equal(t, 3, calls)
	assert.False(t, IsCancelled(err))
}

func TestValue_PermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("400 bad request")
	calls := 0
	policy := Policy{
		MaxAttempts:  3,
		InitialDelay: time.Hour,
		Clock:        clock.Fake(epoch),
		Retryable:    func(err error) bool { return !errors.Is(err, permanent) },
	}

	err := Do(context.Background(), policy, func(context.Context) error {
		calls++
		return permanent
	})

	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestValue_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{Clock: clock.Fake(epoch)}, func(context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestValue_CancelledDuringBackoff(t *testing.T) {
	clk := clock.Fake(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, Policy{MaxAttempts: 3, InitialDelay: time.Second, Clock: clk},
			func(context.Context) error {
				calls++
				return errors.New("timeout")
			})
	}()

	clk.WaitForTimers(1)
	cancel()

	err := <-done
	assert.True(t, IsCancelled(err))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, calls, "cancellation must not be retried")
}

func TestValue_OperationReportsCancellation(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, Clock: clock.Fake(epoch)},
		func(context.Context) error {
			calls++
			return fmt.Errorf("GET /api/interacoes/hoje/: %w", context.Canceled)
		})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, calls)
}

func TestValue_OnRetryHook(t *testing.T) {
	clk := clock.Fake(epoch)
	var delays []time.Duration
	policy := Policy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		Clock:        clk,
		OnRetry: func(_ int, d time.Duration, _ error) {
			delays = append(delays, d)
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- Do(context.Background(), policy, func(context.Context) error {
			return errors.New("unavailable")
		})
	}()
	clk.WaitForTimers(1)
	clk.Advance(100 * time.Millisecond)
	clk.WaitForTimers(1)
	clk.Advance(200 * time.Millisecond)

	require.Error(t, <-done)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestDefaultPolicy(t *testing.T) {
	p := Policy{}.withDefaults()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.InitialDelay)
	assert.NotNil(t, p.Clock)
}
