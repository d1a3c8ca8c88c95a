// Package services – GroupService
//
// GroupService aggregates a group: the primary record plus best-effort member
// and role collections. The bridge has been seen answering the role endpoint
// with an object instead of an array under load; non-array payloads are
// coerced to empty collections so the profile still renders.
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

// GroupService composes bridge calls and cache access for group lookups.
type GroupService struct {
	Bridge *bridge.Client
	Cache  *cache.Store

	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration
	SecondaryLimit   int // ?n= for the member list
}

// Lookup returns the enriched group record for id and whether it was served
// from cache.
func (s *GroupService) Lookup(ctx context.Context, id string) (domain.Record, bool, error) {
	tr := otel.Tracer("services/GroupService")
	ctx, span := tr.Start(ctx, "Lookup",
		trace.WithAttributes(attribute.String("group.id", id)),
	)
	defer span.End()

	key := cache.GenerateKey("group", id)
	if v, ok := s.Cache.Get(key); ok {
		if rec, ok := v.(domain.Record); ok {
			return rec, true, nil
		}
	}

	raw, err := s.Bridge.FetchJSON(ctx, "/groups/"+url.PathEscape(id), s.PrimaryTimeout)
	if err != nil {
		return nil, false, mapLookupErr(err)
	}
	primary, err := asRecord(raw)
	if err != nil {
		return nil, false, err
	}

	var members, roles secondaryResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path := fmt.Sprintf("/groups/%s/members?n=%d", url.PathEscape(id), s.SecondaryLimit)
		members = fetchCollection(gctx, s.Bridge, path, s.SecondaryTimeout)
		return nil
	})
	g.Go(func() error {
		roles = fetchCollection(gctx, s.Bridge, "/groups/"+url.PathEscape(id)+"/roles", s.SecondaryTimeout)
		return nil
	})
	_ = g.Wait()

	merged := make(domain.Record, len(primary)+2)
	for k, v := range primary {
		merged[k] = v
	}
	merged["members"] = members.items
	merged["roles"] = roles.items

	checkIdentity("group", id, merged)

	s.Cache.Set(key, merged)
	return merged, false, nil
}
