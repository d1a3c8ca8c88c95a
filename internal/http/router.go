// Package httpapi wires the HTTP transport (Gin) to the lookup aggregators,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/unstealable/vrclookup-backend/internal/bridge"
	"github.com/unstealable/vrclookup-backend/internal/cache"
	"github.com/unstealable/vrclookup-backend/internal/config"
	"github.com/unstealable/vrclookup-backend/internal/http/handlers"
	"github.com/unstealable/vrclookup-backend/internal/http/middleware"
	"github.com/unstealable/vrclookup-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// public lookup API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter (the API is GET-only; bodies are never large)
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. Gzip (proxied records compress well)
//  9. CORS and security headers
func RegisterRoutes(r *gin.Engine, store *cache.Store, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB)
	r.Use(limitBody(64 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 8) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps
		// simple health checks and curl).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "Route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: handlers ← aggregators ← bridge client + cache
	br := bridge.New(cfg.Bridge.BaseURL)

	userSvc := &services.UserService{
		Bridge:           br,
		Cache:            store,
		PrimaryTimeout:   cfg.Bridge.PrimaryTimeout,
		SecondaryTimeout: cfg.Bridge.SecondaryTimeout,
		SecondaryLimit:   cfg.SecondaryLimit,
	}
	worldSvc := &services.WorldService{
		Bridge:         br,
		Cache:          store,
		PrimaryTimeout: cfg.Bridge.PrimaryTimeout,
	}
	groupSvc := &services.GroupService{
		Bridge:           br,
		Cache:            store,
		PrimaryTimeout:   cfg.Bridge.PrimaryTimeout,
		SecondaryTimeout: cfg.Bridge.SecondaryTimeout,
		SecondaryLimit:   cfg.SecondaryLimit,
	}
	searchSvc := &services.SearchService{
		Bridge:  br,
		Cache:   store,
		Timeout: cfg.Bridge.PrimaryTimeout,
	}
	validateSvc := &services.ValidationService{
		Bridge:  br,
		Timeout: cfg.Bridge.SecondaryTimeout,
	}
	statusSvc := &services.StatusService{
		Bridge:  br,
		Timeout: cfg.Bridge.SecondaryTimeout,
	}

	h := handlers.New(userSvc, worldSvc, groupSvc, searchSvc, validateSvc, statusSvc,
		cfg.SearchDefaultLimit, cfg.SearchMaxLimit)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/user/:id", h.GetUser)
		api.GET("/world/:id", h.GetWorld)
		api.GET("/group/:id", h.GetGroup)
		api.GET("/search", h.Search)
		api.GET("/validate", h.Validate)
		api.GET("/status", h.Status)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
