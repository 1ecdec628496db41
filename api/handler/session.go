package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/birdwatch-dev/birdwatch/models"
	"github.com/birdwatch-dev/birdwatch/scraper"
)

// SessionStats returns a handler for GET /api/v1/session/stats.
// A read-only snapshot: it never launches or touches the browser.
func SessionStats(svc *scraper.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Stats())
	}
}

// SessionRestart returns a handler for POST /api/v1/session/restart.
// The restart is idempotent; it tears down whatever exists and brings up
// a fresh browser and page.
func SessionRestart(svc *scraper.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Restart(); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": &models.ErrorDetail{
					Code:    models.ErrCodeBrowserLaunch,
					Message: err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"session": svc.Stats(),
		})
	}
}
