// Package services – WorldService
//
// WorldService fetches a world through the bridge's direct by-id endpoint.
// An earlier iteration of the site routed world lookups through the search
// endpoint, which could hand back a different world than requested; the
// direct endpoint is authoritative, and the identifier check below remains as
// a monitored assertion for that upstream bug class.
package services

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/cache"
	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// WorldService composes bridge calls and cache access for world lookups.
// Worlds have no secondary collections; the primary record is cached as-is.
type WorldService struct {
	Bridge *bridge.Client
	Cache  *cache.Store

	PrimaryTimeout time.Duration
}

// Lookup returns the world record for id and whether it was served from cache.
func (s *WorldService) Lookup(ctx context.Context, id string) (domain.Record, bool, error) {
	tr := otel.Tracer("services/WorldService")
	ctx, span := tr.Start(ctx, "Lookup",
		trace.WithAttributes(attribute.String("world.id", id)),
	)
	defer span.End()

	key := cache.GenerateKey("world", id)
	if v, ok := s.Cache.Get(key); ok {
		if rec, ok := v.(domain.Record); ok {
			return rec, true, nil
		}
	}

	raw, err := s.Bridge.FetchJSON(ctx, "/worlds/"+url.PathEscape(id), s.PrimaryTimeout)
	if err != nil {
		return nil, false, mapLookupErr(err)
	}
	rec, err := asRecord(raw)
	if err != nil {
		return nil, false, err
	}

	checkIdentity("world", id, rec)

	s.Cache.Set(key, rec)
	return rec, false, nil
}
