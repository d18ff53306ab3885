package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 and counts it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				metrics.IncPanic()
				telemetry.Error("http.panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error")
			}
		}()
		c.Next()
	}
}
