package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/retry"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
		code     int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
			code:     0,
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("failed to load partners: %w", errors.New("disk full")),
			expected: "Error: failed to load partners: disk full",
			code:     1,
		},
		{
			name:     "rejected token",
			err:      fmt.Errorf("failed to load history: %w", &api.StatusError{Method: "GET", Path: "interacoes/historico/", Code: 401}),
			expected: "Error: failed to load history: GET interacoes/historico/: 401 Unauthorized\n  " + hintLogin,
			code:     1,
		},
		{
			name:     "server error",
			err:      &api.StatusError{Method: "GET", Path: "interacoes/pendentes/", Code: 503},
			expected: "Error: GET interacoes/pendentes/: 503 Service Unavailable\n  " + hintDoctor,
			code:     1,
		},
		{
			name:     "backend down",
			err:      fmt.Errorf("failed to load history: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}),
			expected: "Error: failed to load history: dial tcp: connection refused\n  " + hintDoctor,
			code:     1,
		},
		{
			name:     "refused input",
			err:      fmt.Errorf("%w (row 9)", &interactions.ValidationError{Field: "row", Message: "unknown row"}),
			expected: "Invalid input: unknown row (row 9)",
			code:     2,
		},
		{
			name:     "interrupted",
			err:      fmt.Errorf("%w: %w", retry.ErrCancelled, context.Canceled),
			expected: "Interrupted",
			code:     130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
			if got := ExitCode(tt.err); got != tt.code {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.code)
			}
		})
	}
}
