// Package retry runs an operation with bounded attempts and exponential
// backoff. Cancellation is not a transient failure: a cancelled context
// stops the loop immediately and is reported as ErrCancelled.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/salesops/internal/clock"
	"github.com/julianstephens/salesops/internal/constants"
)

// ErrCancelled is matched by every error returned because the context
// was cancelled. The underlying context error is wrapped as well.
var ErrCancelled = errors.New("operation cancelled")

// Policy configures a retry loop. Zero fields take the defaults from
// DefaultPolicy.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Clock        clock.Clock

	// Retryable reports whether err is worth another attempt. Errors it
	// rejects are returned at once without consuming attempts. Nil
	// retries every error.
	Retryable func(error) bool

	// OnRetry is called before each backoff wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns three attempts starting at one second.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  constants.DefaultMaxAttempts,
		InitialDelay: constants.DefaultInitialDelay,
		Clock:        clock.Real(),
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = def.InitialDelay
	}
	if p.Clock == nil {
		p.Clock = def.Clock
	}
	return p
}

// Do runs op until it succeeds, attempts run out, or ctx is cancelled.
// After the final attempt the last error is returned unchanged.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	_, err := Value(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error
	delay := p.InitialDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, cancelled(err)
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, cancelled(ctxErr)
		}
		if IsCancelled(err) {
			return zero, cancelled(err)
		}

		lastErr = err
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		select {
		case <-ctx.Done():
			return zero, cancelled(ctx.Err())
		case <-p.Clock.After(delay):
		}
		delay *= 2
	}
	return zero, lastErr
}

// IsCancelled reports whether err stems from cancellation rather than a
// failure worth surfacing.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

func cancelled(cause error) error {
	if errors.Is(cause, ErrCancelled) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
