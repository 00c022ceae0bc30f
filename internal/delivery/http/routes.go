package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carbonwise/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if !cfg.RateLimit.TrustProxyHeaders {
		// ClientIP (access log) reports the connection address
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Buckets are keyed by client IP and request path
	limit := RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.TrustProxyHeaders)

	router.GET("/", handler.Root)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerRoutes(router, handler, limit)

	// API v1 routes
	v1 := router.Group("/api/v1")
	registerRoutes(v1, handler, limit)

	return router
}

func registerRoutes(r gin.IRoutes, handler *Handler, limit gin.HandlerFunc) {
	r.GET("/health", handler.HealthCheck)
	r.GET("/materials", handler.Materials)
	r.POST("/analyze", limit, handler.Analyze)
	r.POST("/recommendations", limit, handler.Recommendations)
}
