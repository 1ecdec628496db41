package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/birdwatch-dev/birdwatch/models"
	"github.com/birdwatch-dev/birdwatch/scraper"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports session state; degrades when a browser was launched but is no
// longer connected (the health loop will bring it back, and until then
// scrapes will relaunch lazily).
func Health(svc *scraper.Service, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := svc.Stats()

		status := "healthy"
		if !stats.LaunchedAt.IsZero() && !stats.Connected {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Session: stats,
			Version: "0.1.0",
		})
	}
}
