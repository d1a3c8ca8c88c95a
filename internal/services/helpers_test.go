package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/cache"
)

// newUpstream starts a fake bridge API and returns a client pointed at it.
func newUpstream(t *testing.T, h http.HandlerFunc) *bridge.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return bridge.New(srv.URL)
}

func newStore() *cache.Store {
	return cache.New(time.Hour)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
