package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status godoc
// @ID          status
// @Summary     Upstream connectivity status
// @Description Reports whether the VRChat Bridge is reachable and authenticated.
// @Description Always answers 200; the connection state lives in the body.
// @Tags        Status
// @Produce     json
// @Success     200  {object}  domain.ConnectivityStatus
// @Router      /status [get]
func (h *Handlers) Status(c *gin.Context) {
	st := h.status.Check(c.Request.Context())

	// Connectivity is a live probe; never let intermediaries cache it.
	c.Header("Cache-Control", statusCacheControl)
	c.JSON(http.StatusOK, st)
}
