package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless must default to true")
	}
	if cfg.Browser.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.Browser.UserAgent)
	}
	if cfg.Scraper.NavTimeout != 25*time.Second {
		t.Errorf("NavTimeout = %v, want 25s", cfg.Scraper.NavTimeout)
	}
	if cfg.Scraper.FreshnessWindow != 7*24*time.Hour {
		t.Errorf("FreshnessWindow = %v, want 168h", cfg.Scraper.FreshnessWindow)
	}
	if cfg.Scraper.MaxPostsCap != 100 {
		t.Errorf("MaxPostsCap = %d, want 100", cfg.Scraper.MaxPostsCap)
	}
	if cfg.Auth.Enabled {
		t.Error("auth must default to disabled")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BIRDWATCH_PORT", "9090")
	t.Setenv("BIRDWATCH_HEADLESS", "false")
	t.Setenv("BIRDWATCH_NAV_TIMEOUT", "40s")
	t.Setenv("BIRDWATCH_FRESHNESS_DAYS", "3")
	t.Setenv("BIRDWATCH_API_KEYS", "k1, k2 ,k3")
	t.Setenv("BIRDWATCH_RATE_RPS", "2.5")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Browser.Headless {
		t.Error("Headless override not applied")
	}
	if cfg.Scraper.NavTimeout != 40*time.Second {
		t.Errorf("NavTimeout = %v, want 40s", cfg.Scraper.NavTimeout)
	}
	if cfg.Scraper.FreshnessWindow != 3*24*time.Hour {
		t.Errorf("FreshnessWindow = %v, want 72h", cfg.Scraper.FreshnessWindow)
	}
	if len(cfg.Auth.APIKeys) != 3 || cfg.Auth.APIKeys[1] != "k2" {
		t.Errorf("APIKeys = %v, want trimmed k1,k2,k3", cfg.Auth.APIKeys)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BIRDWATCH_PORT", "not-a-number")
	t.Setenv("BIRDWATCH_NAV_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 on parse failure", cfg.Server.Port)
	}
	if cfg.Scraper.NavTimeout != 25*time.Second {
		t.Errorf("NavTimeout = %v, want default 25s on parse failure", cfg.Scraper.NavTimeout)
	}
}
