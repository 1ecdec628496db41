package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser session.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path. When empty, a short
	// list of well-known install locations is probed; if none exists the
	// launcher's managed browser is used.
	BrowserBin string

	// Proxy is an optional proxy URL for all browser traffic.
	Proxy string

	// UserAgent is sent on every navigation and exposed to page JS.
	UserAgent string

	// CookiePayload is a JSON array of cookie objects (or a single
	// object) injected into the page before the first navigation.
	// Cookies missing a name, value, or domain are dropped.
	CookiePayload string

	// HealthInterval is the period of the background health probe.
	HealthInterval time.Duration // default: 10m

	// BlockedResourceTypes lists resource types to block on the page.
	BlockedResourceTypes []string
}

// ScraperConfig controls extraction behavior.
type ScraperConfig struct {
	// NavTimeout bounds page.Navigate plus the network-quiescence wait.
	NavTimeout time.Duration // default: 25s

	// ContentTimeout bounds the wait for the first post container.
	ContentTimeout time.Duration // default: 15s

	// RenderSettle is the pause after navigation for client-side
	// rendering to catch up before classification.
	RenderSettle time.Duration // default: 2s

	// ScrollIterations is how many scroll steps load more of the feed.
	ScrollIterations int // default: 3

	// ScrollPause is the pause between scroll steps.
	ScrollPause time.Duration // default: 1500ms

	// MaxPostsCap is the hard upper bound on per-request max_posts.
	MaxPostsCap int // default: 100

	// FreshnessWindow is the maximum age of a record to be included.
	FreshnessWindow time.Duration // default: 168h (7 days)
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 500
}

// WebhookConfig controls event delivery on scrape completion and restart.
type WebhookConfig struct {
	URL    string
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent mimics a current desktop Chrome. Exposing a headless
// UA gets the session flagged immediately.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
// The cookie payload may be supplied inline (BIRDWATCH_COOKIES) or via a
// file path (BIRDWATCH_COOKIES_FILE); inline wins when both are set.
func Load() *Config {
	cookies := os.Getenv("BIRDWATCH_COOKIES")
	if cookies == "" {
		if path := os.Getenv("BIRDWATCH_COOKIES_FILE"); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				cookies = string(data)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Host: envOr("BIRDWATCH_HOST", "0.0.0.0"),
			Port: envIntOr("BIRDWATCH_PORT", 8080),
			Mode: envOr("BIRDWATCH_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("BIRDWATCH_HEADLESS", true),
			NoSandbox:      envBoolOr("BIRDWATCH_NO_SANDBOX", true),
			BrowserBin:     os.Getenv("BIRDWATCH_BROWSER_BIN"),
			Proxy:          os.Getenv("BIRDWATCH_PROXY"),
			UserAgent:      envOr("BIRDWATCH_USER_AGENT", DefaultUserAgent),
			CookiePayload:  cookies,
			HealthInterval: envDurationOr("BIRDWATCH_HEALTH_INTERVAL", 10*time.Minute),
			BlockedResourceTypes: envSliceOr("BIRDWATCH_BLOCKED_RESOURCES", []string{
				"Font", "Media",
			}),
		},
		Scraper: ScraperConfig{
			NavTimeout:       envDurationOr("BIRDWATCH_NAV_TIMEOUT", 25*time.Second),
			ContentTimeout:   envDurationOr("BIRDWATCH_CONTENT_TIMEOUT", 15*time.Second),
			RenderSettle:     envDurationOr("BIRDWATCH_RENDER_SETTLE", 2*time.Second),
			ScrollIterations: envIntOr("BIRDWATCH_SCROLL_ITERATIONS", 3),
			ScrollPause:      envDurationOr("BIRDWATCH_SCROLL_PAUSE", 1500*time.Millisecond),
			MaxPostsCap:      envIntOr("BIRDWATCH_MAX_POSTS_CAP", 100),
			FreshnessWindow:  time.Duration(envIntOr("BIRDWATCH_FRESHNESS_DAYS", 7)) * 24 * time.Hour,
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("BIRDWATCH_AUTH_ENABLED", false),
			APIKeys: envSliceOr("BIRDWATCH_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("BIRDWATCH_RATE_RPS", 1.0),
			Burst:             envIntOr("BIRDWATCH_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("BIRDWATCH_CACHE_MAX_ENTRIES", 500),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("BIRDWATCH_WEBHOOK_URL"),
			Secret: os.Getenv("BIRDWATCH_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("BIRDWATCH_LOG_LEVEL", "info"),
			Format: envOr("BIRDWATCH_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
