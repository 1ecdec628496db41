// Package session owns the single browser process and single page
// instance shared by all scrape invocations. It handles lazy launch,
// concurrent-init suppression, disconnect detection, periodic health
// probing, and self-healing restart.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/google/uuid"
	"github.com/ysmood/gson"

	"github.com/birdwatch-dev/birdwatch/config"
	"github.com/birdwatch-dev/birdwatch/models"
)

const (
	viewportWidth  = 1920
	viewportHeight = 1080

	// Bounded poll loop for callers waiting on an in-flight launch.
	initPollStep = 100 * time.Millisecond
	initPollMax  = 30 * time.Second

	restartTimeout = 45 * time.Second
)

// wellKnownBrowserPaths are probed in order when no binary override is
// configured. If none exists, rod's launcher falls back to its managed
// download.
var wellKnownBrowserPaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// Session owns at most one browser process and one page at any time.
// A disconnected browser invalidates its page. Safe for concurrent use;
// initialization is guarded so concurrent callers observe at most one
// in-flight launch.
type Session struct {
	cfg config.BrowserConfig
	fp  Fingerprint

	// launch is swappable so tests can exercise the init guard without
	// a real browser.
	launch func() (*rod.Browser, error)

	mu              sync.Mutex
	initializing    bool
	browser         *rod.Browser
	page            *rod.Page
	id              string
	connected       bool
	cookiesLoaded   bool
	lastHealthCheck time.Time
	launchedAt      time.Time
	restarts        int
}

// New creates a Session. No browser is launched until the first Acquire.
func New(cfg config.BrowserConfig) *Session {
	s := &Session{
		cfg: cfg,
		fp:  DefaultFingerprint(cfg.UserAgent),
		id:  uuid.NewString(),
	}
	s.launch = s.launchBrowser
	return s
}

// Acquire returns a ready-to-navigate page, launching the browser and
// creating the page lazily. A live open page is returned as-is: page
// reuse across calls is required for performance and session continuity.
// If another caller is mid-launch, this call waits rather than racing a
// second launch. Launch failure propagates to the caller.
func (s *Session) Acquire(ctx context.Context) (*rod.Page, error) {
	deadline := time.Now().Add(initPollMax)

	for {
		s.mu.Lock()
		if s.browser != nil && s.connected {
			if s.page != nil && pageOpen(s.page) {
				p := s.page
				s.mu.Unlock()
				return p, nil
			}
			page, err := s.newPage(s.browser)
			if err != nil {
				s.mu.Unlock()
				return nil, models.NewScrapeError(models.ErrCodeBrowserLaunch,
					"failed to create page", err)
			}
			s.page = page
			s.mu.Unlock()
			return page, nil
		}

		if !s.initializing {
			s.initializing = true
			s.mu.Unlock()

			err := s.initBrowser()

			s.mu.Lock()
			s.initializing = false
			s.mu.Unlock()

			if err != nil {
				return nil, err
			}
			continue
		}
		s.mu.Unlock()

		// Another caller holds the launch; wait for it to finish.
		if time.Now().After(deadline) {
			return nil, models.NewScrapeError(models.ErrCodeBrowserLaunch,
				"timed out waiting for in-flight browser launch", nil)
		}
		select {
		case <-ctx.Done():
			return nil, models.NewScrapeError(models.ErrCodeBrowserLaunch,
				"canceled while waiting for browser launch", ctx.Err())
		case <-time.After(initPollStep):
		}
	}
}

// initBrowser performs one launch attempt. The caller has already set the
// initializing flag, so at most one of these runs at a time.
func (s *Session) initBrowser() error {
	browser, err := s.launch()
	if err != nil {
		return models.NewScrapeError(models.ErrCodeBrowserLaunch,
			"failed to launch browser", err)
	}

	s.mu.Lock()
	s.browser = browser
	s.connected = true
	s.launchedAt = time.Now()
	s.lastHealthCheck = time.Now()
	id := s.id
	s.mu.Unlock()

	s.watchDisconnect(browser, id)
	return nil
}

// launchBrowser starts a hardened Chromium and connects to it.
func (s *Session) launchBrowser() (*rod.Browser, error) {
	l := launcher.New().
		Headless(s.cfg.Headless).
		NoSandbox(s.cfg.NoSandbox)

	if bin, ok := ResolveBrowserBin(s.cfg.BrowserBin); ok {
		l = l.Bin(bin)
	}
	if s.cfg.Proxy != "" {
		l = l.Proxy(s.cfg.Proxy)
	}

	// Isolated per-instance profile so restarts never inherit state.
	l.Set(flags.UserDataDir, filepath.Join(os.TempDir(), "birdwatch-"+s.id))
	l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", viewportWidth, viewportHeight))

	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}
	slog.Info("browser launched", "controlURL", controlURL, "session_id", s.ID())

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}

// watchDisconnect clears session state when the browser process exits.
// The CDP event channel closes when the connection drops.
func (s *Session) watchDisconnect(browser *rod.Browser, id string) {
	go func() {
		for range browser.Event() {
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.id != id {
			return // already restarted under a new id
		}
		s.connected = false
		s.browser = nil
		s.page = nil
		slog.Warn("browser disconnected, session state cleared", "session_id", id)
	}()
}

// newPage creates and configures the session page. Caller holds s.mu.
func (s *Session) newPage(browser *rod.Browser) (*rod.Page, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.fp.UserAgent,
		AcceptLanguage: s.fp.AcceptLanguage,
	}); err != nil {
		return nil, err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}

	// Stale cached responses would defeat the page-state classifier.
	if err := (proto.NetworkSetCacheDisabled{CacheDisabled: true}).Call(page); err != nil {
		slog.Warn("failed to disable page cache", "error", err)
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(s.fp.ExtraHeaders),
	}).Call(page); err != nil {
		slog.Warn("failed to set extra headers", "error", err)
	}

	// Fingerprint masking must be installed before the first navigation.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without it", "error", err)
	}
	if _, err := page.EvalOnNewDocument(s.fp.InitScript); err != nil {
		slog.Warn("fingerprint mask injection failed", "error", err)
	}

	setupHijack(page, s.cfg.BlockedResourceTypes)

	if !s.cookiesLoaded && s.cfg.CookiePayload != "" {
		cookies, err := ParseCookiePayload(s.cfg.CookiePayload)
		if err != nil {
			slog.Warn("cookie payload could not be parsed", "error", err)
		} else if applied := applyCookies(page, cookies); applied > 0 {
			s.cookiesLoaded = true
			slog.Info("session cookies applied", "count", applied, "session_id", s.id)
		}
	}

	return page, nil
}

// HealthLoop probes the browser on a fixed interval until ctx is done.
// Probe failures trigger a restart and never propagate to any caller.
func (s *Session) HealthLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.HealthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.healthCheck()
		}
	}
}

func (s *Session) healthCheck() {
	s.mu.Lock()
	browser := s.browser
	s.mu.Unlock()

	if browser == nil {
		return // nothing launched yet, nothing to probe
	}

	if _, err := browser.Version(); err != nil {
		slog.Warn("health check failed, restarting session", "error", err)
		if rerr := s.Restart(); rerr != nil {
			slog.Error("session restart after failed health check did not recover", "error", rerr)
		}
		return
	}

	s.mu.Lock()
	s.lastHealthCheck = time.Now()
	s.mu.Unlock()
}

// Restart closes the current page and browser best-effort, resets all
// state under a fresh session id, and performs a fresh initialization.
// Used for self-healing and as an explicit administrative operation.
func (s *Session) Restart() error {
	s.mu.Lock()
	page, browser := s.page, s.browser
	s.page, s.browser = nil, nil
	s.connected = false
	s.cookiesLoaded = false
	s.id = uuid.NewString()
	s.restarts++
	id := s.id
	s.mu.Unlock()

	closeQuietly(page, browser)

	ctx, cancel := context.WithTimeout(context.Background(), restartTimeout)
	defer cancel()
	if _, err := s.Acquire(ctx); err != nil {
		return err
	}
	slog.Info("session restarted", "session_id", id)
	return nil
}

// Shutdown closes the page and browser best-effort. Idempotent and safe
// to call even if nothing was initialized.
func (s *Session) Shutdown() {
	s.mu.Lock()
	page, browser := s.page, s.browser
	s.page, s.browser = nil, nil
	s.connected = false
	s.mu.Unlock()

	closeQuietly(page, browser)
	slog.Info("session shut down")
}

// Stats returns a read-only snapshot. No side effects.
func (s *Session) Stats() models.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionStats{
		SessionID:       s.id,
		Connected:       s.connected,
		PageOpen:        s.page != nil,
		CookiesLoaded:   s.cookiesLoaded,
		LastHealthCheck: s.lastHealthCheck,
		LaunchedAt:      s.launchedAt,
		Restarts:        s.restarts,
	}
}

// ID returns the current session id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// ResolveBrowserBin returns the browser binary to use: the override if
// set, else the first existing well-known install location. The second
// return is false when the launcher should use its managed default.
func ResolveBrowserBin(override string) (string, bool) {
	if override != "" {
		return override, true
	}
	for _, path := range wellKnownBrowserPaths {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func pageOpen(p *rod.Page) bool {
	if p == nil {
		return false
	}
	_, err := p.Info()
	return err == nil
}

// closeQuietly swallows close errors: a dead process errors here and
// that is expected during self-healing.
func closeQuietly(page *rod.Page, browser *rod.Browser) {
	if page != nil {
		if err := page.Close(); err != nil {
			slog.Debug("page close during teardown", "error", err)
		}
	}
	if browser != nil {
		if err := browser.Close(); err != nil {
			slog.Debug("browser close during teardown", "error", err)
		}
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
