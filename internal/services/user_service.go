// Package services – UserService
//
// UserService aggregates a user profile: the primary record from the bridge's
// direct by-id endpoint, enriched with two best-effort secondary collections
// (group memberships and public worlds) fetched concurrently. The merged
// record is cached for the store TTL; the cache hit is the common fast path.
package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/cache"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// UserService composes bridge calls and cache access for user lookups.
type UserService struct {
	Bridge *bridge.Client
	Cache  *cache.Store

	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration
	SecondaryLimit   int // ?n= for the public-worlds collection
}

// Lookup returns the enriched user record for id and whether it was served
// from cache. The id format is not validated here: a malformed id is simply
// not found upstream.
func (s *UserService) Lookup(ctx context.Context, id string) (domain.Record, bool, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Lookup",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	key := cache.GenerateKey("user", id)
	if v, ok := s.Cache.Get(key); ok {
		if rec, ok := v.(domain.Record); ok {
			return rec, true, nil
		}
	}

	raw, err := s.Bridge.FetchJSON(ctx, "/users/"+url.PathEscape(id), s.PrimaryTimeout)
	if err != nil {
		return nil, false, mapLookupErr(err)
	}
	primary, err := asRecord(raw)
	if err != nil {
		return nil, false, err
	}

	// Secondary collections are independent of each other and best-effort:
	// either may degrade to empty without affecting the request.
	var groups, worlds secondaryResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		groups = fetchCollection(gctx, s.Bridge, "/users/"+url.PathEscape(id)+"/groups", s.SecondaryTimeout)
		return nil
	})
	g.Go(func() error {
		path := fmt.Sprintf("/users/%s/worlds?n=%d", url.PathEscape(id), s.SecondaryLimit)
		worlds = fetchCollection(gctx, s.Bridge, path, s.SecondaryTimeout)
		return nil
	})
	_ = g.Wait()

	merged := make(domain.Record, len(primary)+2)
	for k, v := range primary {
		merged[k] = v
	}
	merged["groups"] = groups.items
	merged["publicWorlds"] = worlds.items

	checkIdentity("user", id, merged)

	s.Cache.Set(key, merged)
	return merged, false, nil
}
