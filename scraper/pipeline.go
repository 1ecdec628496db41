package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
)

// domStableWait and domStableDiff tune rod's DOM-quiescence probe.
const (
	domStableWait = 300 * time.Millisecond
	domStableDiff = 0.1
)

// fallbackViewportHeight is used when the page cannot report its own.
const fallbackViewportHeight = 1080

// navigate loads the profile URL and waits for the DOM to settle, then
// pauses so client-side rendering catches up before classification.
func navigate(p *rod.Page, url string, settle time.Duration) error {
	if err := p.Navigate(url); err != nil {
		return err
	}
	if err := p.WaitDOMStable(domStableWait, domStableDiff); err != nil {
		slog.Debug("DOM did not stabilize, proceeding with current state", "error", err)
	}
	sleepCtx(p.GetContext(), settle)
	return nil
}

// waitForContent blocks until at least one post container exists.
func waitForContent(p *rod.Page) error {
	return p.WaitElementsMoreThan(contentWaitSelector, 0)
}

// loadMore scrolls the viewport down in fixed steps with pauses so the
// virtualized feed renders more items than a single viewport shows, then
// returns to the top so extraction always sees the feed from the start.
func loadMore(p *rod.Page, iterations int, pause time.Duration) {
	height := fallbackViewportHeight
	if res, err := p.Eval(`() => window.innerHeight`); err == nil {
		if h := res.Value.Int(); h > 0 {
			height = h
		}
	}

	for i := 0; i < iterations; i++ {
		if err := p.Mouse.Scroll(0, float64(height*2), 4); err != nil {
			slog.Debug("scroll step failed", "step", i, "error", err)
			break
		}
		sleepCtx(p.GetContext(), pause)
	}

	if _, err := p.Eval(`() => window.scrollTo(0, 0)`); err != nil {
		slog.Debug("scroll to top failed", "error", err)
	}
	sleepCtx(p.GetContext(), domStableWait)
}

// snapshot captures the rendered HTML and the post-redirect URL.
func snapshot(p *rod.Page, requestedURL string) (pageHTML, finalURL string, err error) {
	pageHTML, err = p.HTML()
	if err != nil {
		return "", "", err
	}
	finalURL = evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = requestedURL
	}
	return pageHTML, finalURL, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string
// result, swallowing any errors (useful for optional metadata).
func evalStringOrEmpty(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
