// Package services – SearchService
//
// SearchService translates a free-text directory search into the matching
// bridge endpoint and normalizes whatever comes back into a keyed collection
// ({users: [...]}, {worlds: [...]}, {groups: [...]}): a by-id lookup returns
// a bare object that gets wrapped, a name search returns an array. Results
// are cached under kind+method+encoded query so a name search and an id
// search for the same literal never collide.
package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/cache"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// SearchService composes bridge calls and cache access for directory search.
type SearchService struct {
	Bridge *bridge.Client
	Cache  *cache.Store

	Timeout time.Duration
}

// Search runs a directory search for query. kind is users|worlds|groups,
// method is name|id, limit caps name-search result counts.
//
// Unsupported combinations fail with ErrInvalidSearch before any upstream
// call: groups have no name-search endpoint upstream.
func (s *SearchService) Search(ctx context.Context, query, kind, method string, limit int) (domain.Record, bool, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("search.kind", kind),
			attribute.String("search.method", method),
		),
	)
	defer span.End()

	endpoint, err := searchEndpoint(query, kind, method)
	if err != nil {
		return nil, false, err
	}

	key := cache.GenerateSearchKey(kind, query, method)
	if v, ok := s.Cache.Get(key); ok {
		if rec, ok := v.(domain.Record); ok {
			return rec, true, nil
		}
	}

	// Only name searches take a result-count limit; by-id endpoints return a
	// single record.
	if method == domain.SearchByName {
		endpoint = fmt.Sprintf("%s?n=%d", endpoint, limit)
	}

	raw, err := s.Bridge.FetchJSON(ctx, endpoint, s.Timeout)
	if err != nil {
		return nil, false, mapLookupErr(err)
	}
	if raw == nil {
		return nil, false, ErrEmptyResult
	}

	normalized := normalizeSearch(kind, raw)

	s.Cache.Set(key, normalized)
	return normalized, false, nil
}

// searchEndpoint maps (kind, method) to the bridge path, or fails with
// ErrInvalidSearch. Worlds have no direct by-id search route upstream, so an
// id lookup goes through the search endpoint; the search-service consumer
// tolerates the resulting one-element array.
func searchEndpoint(query, kind, method string) (string, error) {
	q := url.PathEscape(query)
	switch method {
	case domain.SearchByID:
		switch kind {
		case domain.SearchUsers:
			return "/users/" + q, nil
		case domain.SearchWorlds:
			return "/search/worlds/" + q, nil
		case domain.SearchGroups:
			return "/groups/" + q, nil
		}
	case domain.SearchByName:
		switch kind {
		case domain.SearchUsers:
			return "/search/users/" + q, nil
		case domain.SearchWorlds:
			return "/search/worlds/" + q, nil
		case domain.SearchGroups:
			return "", fmt.Errorf("%w: groups can only be searched by id", ErrInvalidSearch)
		}
	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidSearch, method)
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidSearch, kind)
}

// normalizeSearch shapes any upstream payload into {kind: [...]}.
func normalizeSearch(kind string, raw any) domain.Record {
	switch v := raw.(type) {
	case []any:
		return domain.Record{kind: v}
	case map[string]any:
		// Already keyed by kind (some search endpoints answer that way).
		if _, ok := v[kind]; ok {
			return v
		}
		// A bare object is a one-element collection.
		return domain.Record{kind: []any{raw}}
	default:
		return domain.Record{kind: []any{raw}}
	}
}
