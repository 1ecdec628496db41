// Package scraper composes the session, the page-state classifier, and
// the extraction pipeline into one scrape operation per request.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/birdwatch-dev/birdwatch/classifier"
	"github.com/birdwatch-dev/birdwatch/config"
	"github.com/birdwatch-dev/birdwatch/models"
	"github.com/birdwatch-dev/birdwatch/session"
	"github.com/birdwatch-dev/birdwatch/webhook"
)

const defaultMaxPosts = 10

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// Service runs scrape operations against the shared browser session.
// Scrapes serialize on an internal mutex: the session exposes a single
// page, and interleaved navigations would corrupt each other's
// extraction.
type Service struct {
	session  *session.Session
	cfg      config.ScraperConfig
	notifier *webhook.Notifier

	mu sync.Mutex
}

// New creates a scrape service on top of the given session.
func New(sess *session.Session, cfg config.ScraperConfig) *Service {
	return &Service{session: sess, cfg: cfg}
}

// SetNotifier enables webhook delivery for scrape and restart events.
func (s *Service) SetNotifier(n *webhook.Notifier) {
	s.notifier = n
}

// Scrape fetches the target's profile, classifies the page state, and
// extracts up to maxPosts fresh records. Every invocation yields exactly
// one ScrapeResult: failures during navigation or extraction are caught,
// classified into a coarse error code, and returned, never propagated.
func (s *Service) Scrape(ctx context.Context, target string, maxPosts int) (result *models.ScrapeResult) {
	start := time.Now()
	corrID := uuid.NewString()
	handle := NormalizeHandle(target)

	if maxPosts <= 0 {
		maxPosts = defaultMaxPosts
	}
	if maxPosts > s.cfg.MaxPostsCap {
		maxPosts = s.cfg.MaxPostsCap
	}

	timing := &models.TimingInfo{}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scrape panicked", "handle", handle, "correlation_id", corrID, "panic", r)
			result = s.fail(handle, corrID, maxPosts, models.ErrCodeUnknown,
				fmt.Sprintf("scrape panicked: %v", r), timing, start)
		}
		if s.notifier != nil && result != nil {
			s.notifier.ScrapeCompleted(corrID, result)
		}
	}()

	if handle == "" {
		return s.fail(handle, corrID, maxPosts, models.ErrCodeInvalidInput,
			fmt.Sprintf("target %q is not a valid handle or profile URL", target), timing, start)
	}

	logger := slog.With("handle", handle, "correlation_id", corrID)
	logger.Info("scrape started", "max_posts", maxPosts)

	s.mu.Lock()
	defer s.mu.Unlock()

	// ── Acquire page ──────────────────────────────────────────────────
	navStart := time.Now()
	page, err := s.session.Acquire(ctx)
	if err != nil {
		logger.Error("session acquire failed", "error", err)
		code, msg := categorizeError(err)
		return s.fail(handle, corrID, maxPosts, code, msg, timing, start)
	}

	// ── Navigate + settle ─────────────────────────────────────────────
	profileURL := "https://x.com/" + handle
	navCtx, cancelNav := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancelNav()
	p := page.Context(navCtx)

	if err := navigate(p, profileURL, s.cfg.RenderSettle); err != nil {
		logger.Warn("navigation failed", "error", err)
		code, msg := categorizeError(err)
		return s.fail(handle, corrID, maxPosts, code, msg, timing, start)
	}

	pageHTML, finalURL, err := snapshot(p, profileURL)
	if err != nil {
		code, msg := categorizeError(err)
		return s.fail(handle, corrID, maxPosts, code, msg, timing, start)
	}
	timing.NavigationMs = time.Since(navStart).Milliseconds()

	// ── Classify ──────────────────────────────────────────────────────
	outcome := classifier.Classify(finalURL, pageHTML, handle)
	if !outcome.OK {
		logger.Warn("page state blocks extraction",
			"code", outcome.Code, "reason", outcome.Reason, "final_url", finalURL)
		return s.fail(handle, corrID, maxPosts, outcome.Code, outcome.Reason, timing, start)
	}

	// ── Wait for content ──────────────────────────────────────────────
	extractStart := time.Now()
	contentCtx, cancelContent := context.WithTimeout(ctx, s.cfg.ContentTimeout)
	defer cancelContent()

	if err := waitForContent(page.Context(contentCtx)); err != nil {
		timing.ExtractionMs = time.Since(extractStart).Milliseconds()
		logger.Warn("no post containers rendered within timeout", "error", err)
		return s.fail(handle, corrID, maxPosts, models.ErrCodeNoTweetsFound,
			"no post containers rendered within timeout", timing, start)
	}

	// ── Load more + extract + filter ──────────────────────────────────
	// Rebind to the request context: the navigation deadline may lapse
	// while the scroll loader is still working.
	p = page.Context(ctx)
	loadMore(p, s.cfg.ScrollIterations, s.cfg.ScrollPause)

	feedHTML, _, err := snapshot(p, profileURL)
	if err != nil {
		timing.ExtractionMs = time.Since(extractStart).Milliseconds()
		code, msg := categorizeError(err)
		return s.fail(handle, corrID, maxPosts, code, msg, timing, start)
	}

	now := time.Now()
	posts := ExtractPosts(feedHTML, handle, maxPosts, now)
	posts = FilterFresh(posts, s.cfg.FreshnessWindow, now, maxPosts)
	timing.ExtractionMs = time.Since(extractStart).Milliseconds()
	timing.TotalMs = time.Since(start).Milliseconds()

	logger.Info("scrape completed",
		"count", len(posts),
		"total_ms", timing.TotalMs,
	)

	return &models.ScrapeResult{
		Success:       true,
		Handle:        handle,
		Posts:         posts,
		Count:         len(posts),
		Requested:     maxPosts,
		CorrelationID: corrID,
		Timing:        *timing,
		ScrapedAt:     now,
	}
}

// Restart performs an administrative session restart.
func (s *Service) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.session.Restart()
	if err == nil && s.notifier != nil {
		s.notifier.SessionRestarted(s.session.ID())
	}
	return err
}

// Stats returns the session's read-only diagnostics snapshot.
func (s *Service) Stats() models.SessionStats {
	return s.session.Stats()
}

func (s *Service) fail(handle, corrID string, requested int, code, msg string, timing *models.TimingInfo, start time.Time) *models.ScrapeResult {
	timing.TotalMs = time.Since(start).Milliseconds()
	return &models.ScrapeResult{
		Success:       false,
		Handle:        handle,
		Posts:         []models.Post{},
		Count:         0,
		Requested:     requested,
		CorrelationID: corrID,
		Timing:        *timing,
		ScrapedAt:     time.Now(),
		Error:         &models.ErrorDetail{Code: code, Message: msg},
	}
}

// NormalizeHandle accepts a bare handle, an @handle, or a profile URL and
// returns the bare handle, or "" when the input cannot name a profile.
func NormalizeHandle(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return ""
	}
	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return ""
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) == 0 {
			return ""
		}
		target = segments[0]
	}
	target = strings.TrimPrefix(target, "@")
	if !handlePattern.MatchString(target) {
		return ""
	}
	return target
}

// categorizeError maps raw navigation and browser failures onto the
// coarse error taxonomy from the failure's description.
func categorizeError(err error) (code, msg string) {
	var scrapeErr *models.ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.Code, scrapeErr.Message
	}

	lower := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(lower, "deadline"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "timed out"):
		return models.ErrCodeTimeout, err.Error()
	case errors.Is(err, context.Canceled):
		return models.ErrCodeTimeout, "operation canceled: " + err.Error()
	case strings.Contains(lower, "connection"),
		strings.Contains(lower, "websocket"),
		strings.Contains(lower, "net::err_connection"),
		strings.Contains(lower, "net::err_internet_disconnected"),
		strings.Contains(lower, "net::err_name_not_resolved"):
		return models.ErrCodeConnection, err.Error()
	case strings.Contains(lower, "navigat"),
		strings.Contains(lower, "net::"):
		return models.ErrCodeNavigation, err.Error()
	default:
		return models.ErrCodeUnknown, err.Error()
	}
}
