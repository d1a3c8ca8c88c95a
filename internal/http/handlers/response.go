// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope, consistent JSON serialization, and
// the cache headers shared by the lookup endpoints. Error envelopes keep the
// `error` field as the human-readable message so existing clients that branch
// on `body.error` keep working, with `code` as the stable machine-readable
// companion.
//
// Example error response:
//
//	HTTP/1.1 408 Request Timeout
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "request_timeout",
//	  "error": "Request timeout"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unstealable/vrclookup-backend/internal/http/middleware"
)

// Cache headers for proxied lookup responses. Lookup and search results are
// cacheable for the store TTL; the status endpoint must never be cached.
const (
	lookupCacheControl = "public, max-age=3600, stale-while-revalidate=300"
	statusCacheControl = "no-cache, no-store, must-revalidate"

	headerCache = "X-Cache"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"error" example:"User not found"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level fallbacks
// (NoRoute, NoMethod).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// okProxied writes a proxied lookup/search payload with the shared cache
// headers and the X-Cache verdict.
func okProxied(c *gin.Context, body any, cached bool) {
	c.Header("Cache-Control", lookupCacheControl)
	if cached {
		c.Header(headerCache, "HIT")
	} else {
		c.Header(headerCache, "MISS")
	}
	c.JSON(http.StatusOK, body)
}
