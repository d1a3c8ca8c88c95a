package handlers

// This file exposes the enriched profile endpoints (GET /api/user/{id},
// /api/world/{id}, /api/group/{id}). Handlers are transport-thin: they bind
// the path parameter, call the matching aggregator, stamp cache headers, and
// translate aggregator failures into the HTTP error contract.

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unstealable/vrclookup-backend/internal/domain"
	"github.com/unstealable/vrclookup-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// LookupService is the aggregator contract shared by user, world, and group
// lookups: resolve an opaque identifier into an enriched record, reporting
// whether it came from cache.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LookupService interface {
	Lookup(ctx context.Context, id string) (domain.Record, bool, error)
}

// SearchService runs directory searches, normalized to a keyed collection.
type SearchService interface {
	Search(ctx context.Context, query, kind, method string, limit int) (domain.Record, bool, error)
}

// ValidationService checks username/email availability.
type ValidationService interface {
	Check(ctx context.Context, typ, value string) (*domain.ValidationOutcome, error)
}

// StatusService probes upstream connectivity; it never fails.
type StatusService interface {
	Check(ctx context.Context) *domain.ConnectivityStatus
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the lookup API. It depends on
// abstract service interfaces to keep transport concerns separate from
// aggregation logic.
type Handlers struct {
	users    LookupService
	worlds   LookupService
	groups   LookupService
	search   SearchService
	validate ValidationService
	status   StatusService

	searchDefaultLimit int
	searchMaxLimit     int
}

// New constructs a Handlers instance bound to the given services.
// searchDefaultLimit/searchMaxLimit bound the ?n= parameter of /api/search.
func New(users, worlds, groups LookupService, search SearchService, validate ValidationService, status StatusService, searchDefaultLimit, searchMaxLimit int) *Handlers {
	return &Handlers{
		users:              users,
		worlds:             worlds,
		groups:             groups,
		search:             search,
		validate:           validate,
		status:             status,
		searchDefaultLimit: searchDefaultLimit,
		searchMaxLimit:     searchMaxLimit,
	}
}

// GetUser godoc
// @ID          getUser
// @Summary     Look up a user profile
// @Description Returns the user record enriched with group memberships and public worlds.
// @Tags        Lookup
// @Produce     json
// @Param       id   path  string  true  "User ID"  example(usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469)
// @Success     200  {object}  map[string]interface{}
// @Header      200  {string}  X-Cache  "HIT or MISS"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     408  {object}  handlers.ErrorResponse  "Upstream timeout"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream error"
// @Router      /user/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	h.serveLookup(c, h.users, "User not found")
}

// GetWorld godoc
// @ID          getWorld
// @Summary     Look up a world
// @Tags        Lookup
// @Produce     json
// @Param       id   path  string  true  "World ID"  example(wrld_4432ea9b-729c-46e3-8eaf-846aa0a37fdd)
// @Success     200  {object}  map[string]interface{}
// @Failure     404  {object}  handlers.ErrorResponse  "World not found"
// @Router      /world/{id} [get]
func (h *Handlers) GetWorld(c *gin.Context) {
	h.serveLookup(c, h.worlds, "World not found")
}

// GetGroup godoc
// @ID          getGroup
// @Summary     Look up a group
// @Description Returns the group record enriched with members and roles.
// @Tags        Lookup
// @Produce     json
// @Param       id   path  string  true  "Group ID"  example(grp_64b8cb94-5eb6-4f29-a280-ec9d58a0a632)
// @Success     200  {object}  map[string]interface{}
// @Failure     404  {object}  handlers.ErrorResponse  "Group not found"
// @Router      /group/{id} [get]
func (h *Handlers) GetGroup(c *gin.Context) {
	h.serveLookup(c, h.groups, "Group not found")
}

// serveLookup runs one resource aggregator and writes the shared response
// shape. The id is passed through unvalidated: a malformed id is simply not
// found upstream.
func (h *Handlers) serveLookup(c *gin.Context, svc LookupService, notFoundMsg string) {
	id := c.Param("id")

	rec, cached, err := svc.Lookup(c.Request.Context(), id)
	if err != nil {
		failLookup(c, err, notFoundMsg)
		return
	}
	okProxied(c, rec, cached)
}

// failLookup translates aggregator failures into the HTTP error contract.
func failLookup(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, services.ErrTimeout):
		fail(c, http.StatusRequestTimeout, ErrCodeTimeout, "Request timeout")
	case errors.Is(err, services.ErrUpstream):
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "External API error")
	case errors.Is(err, services.ErrInvalidSearch):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrEmptyResult):
		fail(c, http.StatusBadRequest, ErrCodeInvalidResponse, "Invalid response format")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
	}
}
