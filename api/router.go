package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pcstats/api/handler"
	"github.com/use-agent/pcstats/api/middleware"
	"github.com/use-agent/pcstats/config"
	"github.com/use-agent/pcstats/engine"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is outside auth so monitoring probes always work.
func NewRouter(e engine.Engine, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(e, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/parse", handler.Parse(e, cfg.Fetch))
	protected.GET("/fields", handler.Fields())

	return r
}
