package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unstealable/vrclookup-backend/internal/domain"
)

// Validate godoc
// @ID          validate
// @Summary     Check username or email availability
// @Description Probes the upstream registry for the given identity. A 404 from
// @Description upstream means the name is unregistered and therefore available.
// @Description When upstream cannot be reached the outcome is ambiguous: both
// @Description exists and available are null and the HTTP status is 500.
// @Tags        Validation
// @Produce     json
// @Param       type   query  string  true  "Identity kind"  Enums(username, email)
// @Param       value  query  string  true  "Value to check"
// @Success     200  {object}  domain.ValidationOutcome
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or unsupported parameters"
// @Failure     500  {object}  domain.ValidationOutcome  "Ambiguous outcome (upstream failure)"
// @Router      /validate [get]
func (h *Handlers) Validate(c *gin.Context) {
	typ := c.Query("type")
	if !domain.ValidValidationType(typ) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Type must be username or email")
		return
	}
	value := c.Query("value")
	if value == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Value parameter is required")
		return
	}

	out, err := h.validate.Check(c.Request.Context(), typ, value)
	if err != nil {
		if out == nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
			return
		}
		// Ambiguous check: the outcome body still describes the failure with
		// null exists/available so clients render "unknown" rather than a
		// false negative.
		c.JSON(http.StatusInternalServerError, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
