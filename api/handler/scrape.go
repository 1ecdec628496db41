package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/birdwatch-dev/birdwatch/cache"
	"github.com/birdwatch-dev/birdwatch/models"
	"github.com/birdwatch-dev/birdwatch/scraper"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when the client sent max_age_ms.
//  3. Run the scrape operation; it always yields exactly one result.
//  4. Map the result's error code to an HTTP status and respond.
func Scrape(svc *scraper.Service, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResult{
				Success: false,
				Posts:   []models.Post{},
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		handle := scraper.NormalizeHandle(req.Handle)
		cacheKey := cache.Key(handle, req.MaxPosts)

		if cc != nil && req.MaxAgeMs > 0 && handle != "" {
			if cached, hit := cc.Get(cacheKey, req.MaxAgeMs); hit {
				cached.CacheStatus = "hit"
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		result := svc.Scrape(c.Request.Context(), req.Handle, req.MaxPosts)

		if cc != nil && req.MaxAgeMs > 0 && result.Success {
			cc.Set(cacheKey, result)
			result.CacheStatus = "miss"
		}

		c.JSON(statusForResult(result), result)
	}
}

// statusForResult translates result error codes to HTTP status codes.
// Successful scrapes with zero fresh posts are still 200s.
func statusForResult(r *models.ScrapeResult) int {
	if r.Success {
		return http.StatusOK
	}
	switch r.Error.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound, models.ErrCodeNoTweetsFound:
		return http.StatusNotFound // 404
	case models.ErrCodeSuspended, models.ErrCodeProtected, models.ErrCodeAuthRequired:
		return http.StatusForbidden // 403
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeConnection, models.ErrCodeProfileLoadFailed:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
