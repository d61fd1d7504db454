package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"needsnet.app/api/common/logger"
)

const maxRequestIDLength = 128

// RequestID takes the request id from headerName or mints one, echoes it in
// the response and adds it to the context's log fields.
func RequestID(headerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerName)
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.NewString()
		}

		c.Header(headerName, rid)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: logger.Ptr(rid)})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
