package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformed wraps responses whose body could not be decoded
var ErrMalformed = errors.New("malformed response")

// StatusError is returned for any non-2xx response
type StatusError struct {
	Method string
	Path   string
	Code   int
	// Detail is the server's own message when the body carried one
	Detail string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unauthorized reports whether the server rejected the credentials
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// IsTransient reports whether err is worth retrying. Transport failures,
// timeouts, rate limiting and server errors are; every other 4xx, a
// malformed body and cancellation are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMalformed) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusRequestTimeout, se.Code == http.StatusTooManyRequests:
			return true
		case se.Code >= 500:
			return true
		default:
			return false
		}
	}
	return true
}

// IsUnauthorized reports whether err is a 401 or 403 response
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Unauthorized()
}

// detail pulls a human message out of an error body. The backend uses
// "erro" for its own errors and "detail" for framework ones.
func detail(body []byte) string {
	var payload struct {
		Erro   string `json:"erro"`
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Erro != "":
		return payload.Erro
	case payload.Error != "":
		return payload.Error
	default:
		return payload.Detail
	}
}
