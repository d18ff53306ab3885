package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/services/health"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
)

// RouterDeps holds the handlers the router needs.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rule:    middleware.PerHour(deps.Config.RateLimitPerHour),
			Limiter: deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
