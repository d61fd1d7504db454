package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/metrics"
)

// Errors renders the last error a handler attached with c.Error as
// {"message": ...} using the status of its apperr kind. Errors that are not
// *apperr.Error are treated as internal and their text is never returned.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperr.As(err)
		status := appErr.HTTPStatus()
		ctx := c.Request.Context()

		switch appErr.Kind {
		case apperr.KindInternal:
			slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
		case apperr.KindUnavailable:
			slog.WarnContext(ctx, "dependency unavailable", "error", err, "status", status)
		default:
			slog.InfoContext(ctx, "request rejected", "kind", appErr.Kind, "reason", appErr.Message, "status", status)
		}

		metrics.HTTPErrorsTotal.WithLabelValues(string(appErr.Kind)).Inc()
		c.AbortWithStatusJSON(status, gin.H{"message": appErr.PublicMessage()})
	}
}
