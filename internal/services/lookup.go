// Shared aggregation helpers: bridge error translation, best-effort secondary
// fetches, and the identifier sanity check used by all resource aggregators.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// mapLookupErr translates bridge failures into service-level errors for a
// primary resource fetch. Transport and malformed-body failures stay
// unclassified and surface as internal errors.
func mapLookupErr(err error) error {
	switch {
	case errors.Is(err, bridge.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, bridge.ErrTimeout):
		return ErrTimeout
	}
	var se *bridge.StatusError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: upstream status %d", ErrUpstream, se.StatusCode)
	}
	return err
}

// secondaryResult is the tagged outcome of one best-effort fetch: either the
// decoded collection, or a degraded empty one. Degraded results never
// escalate to a request-level failure.
type secondaryResult struct {
	items    []any
	degraded bool
}

// fetchCollection fetches a secondary collection and absorbs every failure
// mode into an empty slice: timeouts, upstream errors, and non-array payloads
// all degrade rather than fail. The degradation is logged, not surfaced.
func fetchCollection(ctx context.Context, cl *bridge.Client, path string, timeout time.Duration) secondaryResult {
	raw, err := cl.FetchJSON(ctx, path, timeout)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("secondary fetch degraded")
		return secondaryResult{items: []any{}, degraded: true}
	}
	items, ok := raw.([]any)
	if !ok {
		log.Warn().Str("path", path).Msg("secondary payload not an array, coerced to empty")
		return secondaryResult{items: []any{}, degraded: true}
	}
	return secondaryResult{items: items}
}

// checkIdentity verifies that the record the bridge returned is the one that
// was asked for. Some upstream endpoints have historically answered a lookup
// with a different record when routed through a search fallback; a mismatch
// is an upstream anomaly worth logging, but the record is still usable, so
// this never fails the request.
func checkIdentity(kind, requested string, rec domain.Record) {
	got, _ := rec["id"].(string)
	if got != "" && got != requested {
		log.Warn().
			Str("kind", kind).
			Str("requested_id", requested).
			Str("returned_id", got).
			Msg("upstream returned a different record than requested")
	}
}

// asRecord coerces a decoded primary payload into a Record. The bridge
// guarantees parseable JSON; a primary that is not a JSON object cannot be
// enriched and counts as an upstream contract violation.
func asRecord(raw any) (domain.Record, error) {
	rec, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: primary payload is not an object", ErrUpstream)
	}
	return rec, nil
}
