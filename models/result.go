package models

import "time"

// ScrapeResult is the sole externally observable artifact of one scrape
// operation. It is immutable once constructed: every invocation yields
// exactly one, whether the operation succeeded or failed.
type ScrapeResult struct {
	// Success indicates whether extraction completed and produced records.
	Success bool `json:"success"`

	// Handle is the normalized target handle.
	Handle string `json:"handle"`

	// Posts is the freshness-filtered, newest-first record list.
	// Empty (never nil in JSON) on failure.
	Posts []Post `json:"posts"`

	// Count is len(Posts).
	Count int `json:"count"`

	// Requested is the maximum record count asked for.
	Requested int `json:"requested"`

	// CorrelationID ties log lines and webhook events to this operation.
	CorrelationID string `json:"correlation_id"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// ScrapedAt is when the operation finished.
	ScrapedAt time.Time `json:"scraped_at"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// NavigationMs covers navigation, settle, and classification.
	NavigationMs int64 `json:"navigation_ms"`

	// ExtractionMs covers scroll loading, DOM extraction, and filtering.
	ExtractionMs int64 `json:"extraction_ms"`
}

// Outcome is the page-state classifier's verdict on whether extraction
// may proceed. Produced once per navigation, consumed immediately by the
// orchestrator.
type Outcome struct {
	OK     bool   `json:"ok"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Valid is the Outcome allowing extraction to proceed.
func Valid() Outcome {
	return Outcome{OK: true}
}

// Invalid is an Outcome blocking extraction with the given code.
func Invalid(code, reason string) Outcome {
	return Outcome{Code: code, Reason: reason}
}

// SessionStats is a read-only snapshot of the browser session.
type SessionStats struct {
	SessionID       string    `json:"session_id"`
	Connected       bool      `json:"connected"`
	PageOpen        bool      `json:"page_open"`
	CookiesLoaded   bool      `json:"cookies_loaded"`
	LastHealthCheck time.Time `json:"last_health_check"`
	LaunchedAt      time.Time `json:"launched_at"`
	Restarts        int       `json:"restarts"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string       `json:"status"` // "healthy" or "degraded"
	Uptime  string       `json:"uptime"`
	Session SessionStats `json:"session"`
	Version string       `json:"version"`
}

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// Handle is a bare handle, an @handle, or a full profile URL. Required.
	Handle string `json:"handle" binding:"required"`

	// MaxPosts bounds both DOM-scan effort and final output size.
	// Default: 10.
	MaxPosts int `json:"max_posts,omitempty" binding:"omitempty,min=1"`

	// MaxAgeMs enables the result cache: a cached result younger than
	// this many milliseconds is returned without touching the browser.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.MaxPosts == 0 {
		r.MaxPosts = 10
	}
}
