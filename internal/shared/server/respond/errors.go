package respond

import (
	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/telemetry"
)

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure and aborts with {"error": message}. The code is
// only used for logs.
func Error(c *gin.Context, status int, code, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
