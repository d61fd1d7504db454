package handler

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/http/middleware"
	"needsnet.app/api/internal/http/validation"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail hands err to middleware.Errors for rendering.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		fail(c, invalid(c, err))
		return false
	}
	return true
}

func bindURI(c *gin.Context, obj any) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		fail(c, invalid(c, err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		fail(c, invalid(c, err))
		return false
	}
	return true
}

func invalid(c *gin.Context, err error) error {
	return apperr.Validation(validation.Translate(err, c.GetHeader("Accept-Language"))).WithCause(err)
}

// viewerID is the caller's user id, or "" for guests.
func viewerID(c *gin.Context) string {
	if p := middleware.GetPrincipal(c.Request.Context()); p != nil {
		return p.ID
	}
	return ""
}

// principal returns the authenticated caller. Routes using it sit behind
// RequireAuth; the nil branch only guards against misrouting.
func principal(c *gin.Context) *middleware.Principal {
	p := middleware.GetPrincipal(c.Request.Context())
	if p == nil {
		fail(c, apperr.Unauthorized("authentication required"))
	}
	return p
}
