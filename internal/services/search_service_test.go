package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/unstealable/vrclookup-backend/internal/domain"
)

func newSearchService(t *testing.T, h http.HandlerFunc) (*SearchService, *int32) {
	t.Helper()
	var calls int32
	svc := &SearchService{
		Bridge: newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			h(w, r)
		}),
		Cache:   newStore(),
		Timeout: time.Second,
	}
	return svc, &calls
}

func TestSearchGroupsByNameRejected(t *testing.T) {
	svc, calls := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[]`)
	})

	_, _, err := svc.Search(context.Background(), "foo", domain.SearchGroups, domain.SearchByName, 12)
	if !errors.Is(err, ErrInvalidSearch) {
		t.Fatalf("err = %v, want ErrInvalidSearch", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("upstream called %d times, want 0 (rejected before any call)", n)
	}
}

func TestSearchUnknownKindAndMethodRejected(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, _, err := svc.Search(context.Background(), "q", "avatars", domain.SearchByName, 12); !errors.Is(err, ErrInvalidSearch) {
		t.Errorf("unknown kind: err = %v", err)
	}
	if _, _, err := svc.Search(context.Background(), "q", domain.SearchUsers, "fuzzy", 12); !errors.Is(err, ErrInvalidSearch) {
		t.Errorf("unknown method: err = %v", err)
	}
}

func TestSearchByIDWrapsBareObject(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/usr_1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("id search must not pass a limit, got %q", r.URL.RawQuery)
		}
		writeJSON(w, `{"id":"usr_1","displayName":"Alice"}`)
	})

	rec, _, err := svc.Search(context.Background(), "usr_1", domain.SearchUsers, domain.SearchByID, 12)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	users, ok := rec["users"].([]any)
	if !ok || len(users) != 1 {
		t.Fatalf("rec = %#v, want one wrapped user", rec)
	}
}

func TestSearchByNamePassesLimitAndNormalizesArray(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/worlds/pub" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("n") != "7" {
			t.Errorf("n = %q, want 7", r.URL.Query().Get("n"))
		}
		writeJSON(w, `[{"id":"wrld_1"},{"id":"wrld_2"}]`)
	})

	rec, _, err := svc.Search(context.Background(), "pub", domain.SearchWorlds, domain.SearchByName, 7)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	worlds, ok := rec["worlds"].([]any)
	if !ok || len(worlds) != 2 {
		t.Fatalf("rec = %#v", rec)
	}
}

func TestSearchWorldsByIDUsesSearchFallback(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		// Worlds have no direct by-id search route; the fallback endpoint
		// answers with a one-element array.
		if r.URL.Path != "/search/worlds/wrld_1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		writeJSON(w, `[{"id":"wrld_1"}]`)
	})

	rec, _, err := svc.Search(context.Background(), "wrld_1", domain.SearchWorlds, domain.SearchByID, 12)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if worlds, ok := rec["worlds"].([]any); !ok || len(worlds) != 1 {
		t.Fatalf("rec = %#v", rec)
	}
}

func TestSearchKeyedPayloadPassesThrough(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"users":[{"id":"usr_1"},{"id":"usr_2"}]}`)
	})

	rec, _, err := svc.Search(context.Background(), "ali", domain.SearchUsers, domain.SearchByName, 12)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if users, ok := rec["users"].([]any); !ok || len(users) != 2 {
		t.Fatalf("rec = %#v", rec)
	}
}

func TestSearchCachesPerMethod(t *testing.T) {
	svc, calls := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"id":"usr_alice"}`)
	})

	// Same literal query, different methods: two distinct cache entries.
	if _, cached, err := svc.Search(context.Background(), "alice", domain.SearchUsers, domain.SearchByName, 12); err != nil || cached {
		t.Fatalf("first name search: cached=%v err=%v", cached, err)
	}
	if _, cached, err := svc.Search(context.Background(), "alice", domain.SearchUsers, domain.SearchByID, 12); err != nil || cached {
		t.Fatalf("first id search: cached=%v err=%v", cached, err)
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Fatalf("upstream called %d times, want 2", n)
	}

	// Replays hit the cache.
	if _, cached, err := svc.Search(context.Background(), "alice", domain.SearchUsers, domain.SearchByName, 12); err != nil || !cached {
		t.Fatalf("replay: cached=%v err=%v", cached, err)
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf("replay reached upstream, calls = %d", n)
	}
}

func TestSearchNotFound(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, _, err := svc.Search(context.Background(), "ghost", domain.SearchUsers, domain.SearchByName, 12); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchNullPayloadIsEmptyResult(t *testing.T) {
	svc, _ := newSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `null`)
	})
	if _, _, err := svc.Search(context.Background(), "x", domain.SearchUsers, domain.SearchByName, 12); !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}
