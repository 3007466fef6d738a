// Package api is the HTTP client for the partner-management backend.
// Every call carries the bearer token, is paced by a client-side rate
// limiter and is tagged with an X-Request-ID for log correlation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/logger"
)

var log = logger.Component("api")

// TokenFunc returns the current access token. An empty token sends the
// request unauthenticated.
type TokenFunc func() (string, error)

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	Token      TokenFunc
	HTTPClient *http.Client
}

type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	token   TokenFunc
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api url is not configured")
	}
	raw := opts.BaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = constants.DefaultBurst
	}

	token := opts.Token
	if token == nil {
		token = func() (string, error) { return "", nil }
	}

	return &Client{
		base:    base,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		token:   token,
	}, nil
}

// BaseURL returns the normalised base url
func (c *Client) BaseURL() string {
	return c.base.String()
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	anonymous   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("rate limiter: %w", err)
	}

	ref := &url.URL{Path: r.path}
	if len(r.query) > 0 {
		ref.RawQuery = r.query.Encode()
	}
	target := c.base.ResolveReference(ref)

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if !r.anonymous {
		tok, err := c.token()
		if err != nil {
			return fmt.Errorf("failed to read access token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log.Debug("api request", "method", r.method, "path", r.path, "request_id", reqID)

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read body: %w", r.method, r.path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Debug("api error", "path", r.path, "status", res.StatusCode, "request_id", reqID)
		return &StatusError{Method: r.method, Path: r.path, Code: res.StatusCode, Detail: detail(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformed, r.method, r.path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func jsonBody(in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, path string, in any, out any) error {
	body, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, out)
}
