// Package cache implements the process-wide lookup cache: a key/value store
// with a fixed time-to-live per entry, lazy expiry at read time, and a
// periodic background sweep.
//
// Values are stored as opaque payloads and treated as immutable: a refresh
// overwrites the entry wholesale, nothing is mutated in place. Two concurrent
// misses for the same key may both fetch upstream and both write; that race
// is tolerated because values for a given key are idempotent re-fetches of
// the same resource — last write wins.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// cacheHits / cacheMisses count Get outcomes; expired reads count as misses.
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_cache_hits_total",
		Help: "Total number of cache reads served from a live entry.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_cache_misses_total",
		Help: "Total number of cache reads that found no live entry.",
	})
	cacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lookup_cache_evictions_total",
		Help: "Total number of expired entries removed (lazy reads and sweeps).",
	})
	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lookup_cache_entries",
		Help: "Current number of entries in the cache, including not-yet-swept expired ones.",
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, cacheEvictions, cacheEntries)
}

// Entry is a single cached payload with its lifetime bounds.
// ExpiresAt is always CreatedAt + the store TTL.
type Entry struct {
	Value     any
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Stats is a point-in-time summary of store contents.
type Stats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}

// Store is a TTL'd in-memory key/value store safe for concurrent use.
// Construct it once at process start and inject it where needed; it holds the
// only process-wide mutable state in the service.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration

	// now is a clock seam for expiry tests.
	now func() time.Time
}

// New returns an empty Store whose entries live for ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live value for key. An expired entry is evicted as a side
// effect of the read and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	ent, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		cacheMisses.Inc()
		return nil, false
	}
	if s.now().After(ent.ExpiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := s.entries[key]; ok && s.now().After(cur.ExpiresAt) {
			delete(s.entries, key)
			cacheEvictions.Inc()
			cacheEntries.Set(float64(len(s.entries)))
		}
		s.mu.Unlock()
		cacheMisses.Inc()
		return nil, false
	}
	cacheHits.Inc()
	return ent.Value, true
}

// Set inserts or overwrites the entry for key with a fresh TTL.
func (s *Store) Set(key string, value any) {
	now := s.now()
	s.mu.Lock()
	s.entries[key] = Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	cacheEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Has reports whether a live entry exists for key.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes the entry for key and reports whether one was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	cacheEntries.Set(float64(len(s.entries)))
	return true
}

// Clear drops all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	cacheEntries.Set(0)
	s.mu.Unlock()
}

// Cleanup scans all entries and evicts the expired ones. It bounds growth
// from keys that are never read again; the scan is a single pass under the
// write lock, proportional to entry count.
func (s *Store) Cleanup() {
	now := s.now()
	s.mu.Lock()
	for k, ent := range s.entries {
		if now.After(ent.ExpiresAt) {
			delete(s.entries, k)
			cacheEvictions.Inc()
		}
	}
	cacheEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// GetStats returns entry counts without evicting anything.
func (s *Store) GetStats() Stats {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{TotalEntries: len(s.entries)}
	for _, ent := range s.entries {
		if now.After(ent.ExpiresAt) {
			st.ExpiredEntries++
		} else {
			st.ActiveEntries++
		}
	}
	return st
}

// Janitor runs Cleanup every interval until ctx is cancelled. Run it as a
// goroutine with a context tied to process lifetime so the sweep stops on
// shutdown.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup()
		}
	}
}

// GenerateKey builds the cache key for a direct resource lookup.
// Kind is one of "user", "world", "group".
func GenerateKey(kind, id string) string {
	return fmt.Sprintf("vrchat:%s:%s", kind, id)
}

// GenerateSearchKey builds the cache key for a search request. The query is
// percent-encoded so distinct queries never collide and identical queries
// always produce the same key; method keeps name-search and id-search for the
// same literal string apart.
func GenerateSearchKey(kind, query, method string) string {
	return fmt.Sprintf("vrchat:search:%s:%s:%s", kind, method, url.QueryEscape(query))
}
