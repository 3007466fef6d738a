// Package errors turns command failures into the message and exit code
// the user sees.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/logger"
	"github.com/julianstephens/salesops/internal/retry"
)

const (
	hintLogin  = "run 'salesops login' to sign in again"
	hintDoctor = "run 'salesops doctor' to check the backend connection"
)

// Format renders err for the terminal. Rejected credentials and
// unreachable backends get a hint on the next line; input the
// controller refused is shown as-is.
func Format(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case retry.IsCancelled(err) || stderrors.Is(err, context.Canceled):
		return "Interrupted"
	case interactions.IsValidation(err):
		return fmt.Sprintf("Invalid input: %v", err)
	case api.IsUnauthorized(err):
		return fmt.Sprintf("Error: %v\n  %s", err, hintLogin)
	case unreachable(err):
		return fmt.Sprintf("Error: %v\n  %s", err, hintDoctor)
	}
	return fmt.Sprintf("Error: %v", err)
}

// unreachable reports a network failure or a server-side error status
func unreachable(err error) bool {
	var se *api.StatusError
	if stderrors.As(err, &se) {
		return api.IsTransient(se)
	}
	var ne net.Error
	return stderrors.As(err, &ne)
}

// ExitCode is 130 for an interrupted command, 2 for rejected input and
// 1 for everything else
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case retry.IsCancelled(err) || stderrors.Is(err, context.Canceled):
		return 130
	case interactions.IsValidation(err):
		return 2
	}
	return 1
}

// Fatal logs err, prints it and exits with its exit code
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}
