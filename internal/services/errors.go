// Package services implements the aggregators that compose upstream bridge
// calls and cache access into normalized lookup results. This file
// centralizes service-level error values so that they can be consistently
// returned by aggregators and translated into HTTP status codes at the
// handler layer.
package services

import "errors"

var (
	// ErrNotFound indicates the primary record does not exist upstream.
	// Negative results are never cached.
	ErrNotFound = errors.New("resource not found")

	// ErrTimeout indicates the primary fetch exceeded its per-call timeout.
	ErrTimeout = errors.New("upstream request timeout")

	// ErrUpstream indicates the bridge API answered with a non-2xx, non-404
	// status for a primary fetch.
	ErrUpstream = errors.New("external api error")

	// ErrInvalidSearch is returned for unsupported kind/method combinations
	// before any upstream call is made (e.g. groups have no name-search
	// endpoint).
	ErrInvalidSearch = errors.New("invalid search request")

	// ErrEmptyResult indicates the upstream search answered successfully but
	// with an absent payload; distinct from a 404.
	ErrEmptyResult = errors.New("invalid response format")

	// ErrCheckFailed marks a validation outcome as ambiguous: the existence
	// probe itself failed, so availability is unknown rather than false.
	ErrCheckFailed = errors.New("validation check failed")
)
