package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unstealable/vrclookup-backend/internal/domain"
	"github.com/unstealable/vrclookup-backend/internal/utils"
)

// Search godoc
// @ID          search
// @Summary     Search the directory
// @Description Searches users, worlds, or groups by display name or exact ID.
// @Description Results are normalized to a single-key object, e.g. {"users": [...]}.
// @Tags        Search
// @Produce     json
// @Param       q       query  string  true   "Search query (alias: name)"
// @Param       type    query  string  false  "Resource kind"  Enums(users, worlds, groups)  default(users)
// @Param       method  query  string  false  "Match method"   Enums(name, id)               default(name)
// @Param       n       query  int     false  "Result limit (name searches only)"
// @Success     200  {object}  map[string]interface{}
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query or unsupported kind/method combination"
// @Failure     404  {object}  handlers.ErrorResponse  "No match for an ID search"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	// "name" is accepted as a legacy alias for "q".
	query := c.Query("q")
	if query == "" {
		query = c.Query("name")
	}
	if query == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Search query parameter is required")
		return
	}

	kind := c.DefaultQuery("type", domain.SearchUsers)
	method := c.DefaultQuery("method", domain.SearchByName)

	limit := utils.AtoiDefault(c.Query("n"), h.searchDefaultLimit)
	if limit < 1 {
		limit = h.searchDefaultLimit
	}
	if limit > h.searchMaxLimit {
		limit = h.searchMaxLimit
	}

	res, cached, err := h.search.Search(c.Request.Context(), query, kind, method, limit)
	if err != nil {
		failLookup(c, err, "No results found")
		return
	}
	okProxied(c, res, cached)
}
