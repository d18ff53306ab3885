package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"status":            c.Writer.Status(),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"analysis_source":   c.GetString("analysisSource"),
			"analysis_provider": c.GetString("analysisProvider"),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
