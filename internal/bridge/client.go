// Package bridge is the HTTP client for the upstream VRChat bridge API.
//
// The client does exactly one thing: fetch a JSON document with a per-call
// timeout and classify the failure. It never caches, never retries, and never
// logs business semantics — callers own those concerns. Classification is via
// sentinel errors and StatusError so aggregators can branch with errors.Is /
// errors.As.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Failure classes. A transport-level failure that is neither a timeout nor an
// HTTP status (connection refused, DNS) is returned wrapped but unclassified;
// callers treat it as an internal error.
var (
	// ErrNotFound is the upstream 404. For resource lookups this is a hard
	// miss; for existence checks it is a normal, even desirable, outcome —
	// the caller decides.
	ErrNotFound = errors.New("bridge: not found")

	// ErrTimeout means no response arrived within the per-call timeout.
	ErrTimeout = errors.New("bridge: request timeout")

	// ErrMalformedResponse means the upstream answered 2xx but the body could
	// not be decoded as JSON.
	ErrMalformedResponse = errors.New("bridge: malformed response")
)

// StatusError is any non-2xx, non-404 upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bridge: upstream returned HTTP %d", e.StatusCode)
}

// Client fetches JSON documents from the bridge API.
// The zero value is not usable; construct with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client rooted at baseURL (no trailing slash). Per-call
// timeouts are applied via context, so the underlying http.Client carries
// none of its own.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// BaseURL returns the configured upstream root.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchJSON performs GET baseURL+path and decodes the body into a generic
// JSON value. path must begin with '/'; query strings are allowed.
//
// Error contract:
//   - ErrTimeout        — no response within timeout
//   - ErrNotFound       — upstream 404
//   - *StatusError      — any other non-2xx status
//   - ErrMalformedResponse — undecodable 2xx body
//   - anything else     — transport failure, wrapped
func (c *Client) FetchJSON(ctx context.Context, path string, timeout time.Duration) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("bridge: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var out any
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&out); err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// isTimeout reports whether err is a deadline/timeout failure, whichever of
// the context or net layers surfaced it first.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
