package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/birdwatch-dev/birdwatch/models"
)

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jack", "jack"},
		{"@jack", "jack"},
		{"  @jack  ", "jack"},
		{"JackDorsey_2", "JackDorsey_2"},
		{"https://x.com/jack", "jack"},
		{"https://x.com/jack/with_replies", "jack"},
		{"https://twitter.com/jack", "jack"},
		{"https://x.com/@jack", "jack"},
		{"https://x.com/", ""},
		{"", ""},
		{"   ", ""},
		{"way_too_long_for_a_handle", ""},
		{"has spaces", ""},
		{"semi;colon", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHandle(tt.in); got != tt.want {
			t.Errorf("NormalizeHandle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline exceeded", context.DeadlineExceeded, models.ErrCodeTimeout},
		{"timeout text", errors.New("page load timed out after 25s"), models.ErrCodeTimeout},
		{"canceled", context.Canceled, models.ErrCodeTimeout},
		{"websocket drop", errors.New("websocket: close 1006"), models.ErrCodeConnection},
		{"chrome connection", errors.New("net::ERR_CONNECTION_REFUSED"), models.ErrCodeConnection},
		{"dns", errors.New("net::ERR_NAME_NOT_RESOLVED"), models.ErrCodeConnection},
		{"navigation", errors.New("navigation failed: net::ERR_ABORTED"), models.ErrCodeNavigation},
		{"chrome net error", errors.New("net::ERR_BLOCKED_BY_CLIENT"), models.ErrCodeNavigation},
		{"anything else", errors.New("something exploded"), models.ErrCodeUnknown},
		{
			"tagged error keeps its code",
			models.NewScrapeError(models.ErrCodeBrowserLaunch, "no browser binary found", nil),
			models.ErrCodeBrowserLaunch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := categorizeError(tt.err)
			if code != tt.want {
				t.Errorf("code = %s, want %s", code, tt.want)
			}
			if msg == "" {
				t.Error("message must not be empty")
			}
		})
	}
}
