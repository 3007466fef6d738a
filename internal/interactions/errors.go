package interactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/salesops/internal/retry"
)

var (
	// ErrSuperseded is returned by a load whose result was dropped
	// because a newer cycle started. It matches retry.ErrCancelled.
	ErrSuperseded = fmt.Errorf("%w: superseded by a newer request", retry.ErrCancelled)

	// ErrBusy is returned when the same mutation is already running
	ErrBusy = errors.New("operation already in progress")

	// ErrClosed is returned by operations started after Close
	ErrClosed = fmt.Errorf("%w: controller closed", retry.ErrCancelled)
)

// ValidationError reports input rejected before any request was made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a *ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// cancelledErr returns err when it already reports cancellation, or a
// cancellation error built from ctx
func cancelledErr(ctx context.Context, err error) error {
	if retry.IsCancelled(err) {
		return err
	}
	cause := ctx.Err()
	if cause == nil {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %w", retry.ErrCancelled, cause)
}
