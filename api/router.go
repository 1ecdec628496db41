package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/birdwatch-dev/birdwatch/api/handler"
	"github.com/birdwatch-dev/birdwatch/api/middleware"
	"github.com/birdwatch-dev/birdwatch/cache"
	"github.com/birdwatch-dev/birdwatch/config"
	"github.com/birdwatch-dev/birdwatch/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(svc *scraper.Service, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(svc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(svc, cc))
	protected.GET("/session/stats", handler.SessionStats(svc))
	protected.POST("/session/restart", handler.SessionRestart(svc))

	return r
}
