package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod"

	"github.com/birdwatch-dev/birdwatch/config"
	"github.com/birdwatch-dev/birdwatch/models"
)

func newTestSession() *Session {
	return New(config.BrowserConfig{
		Headless:  true,
		NoSandbox: true,
		UserAgent: config.DefaultUserAgent,
	})
}

func TestAcquire_ConcurrentCallersShareOneLaunch(t *testing.T) {
	s := newTestSession()

	var inFlight, maxInFlight int32
	s.launch = func() (*rod.Browser, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if cur <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, cur) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return nil, errors.New("synthetic launch failure")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Acquire(ctx); err == nil {
				t.Error("expected launch failure to propagate")
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxInFlight); got != 1 {
		t.Errorf("max concurrent launches = %d, want 1", got)
	}
}

func TestAcquire_LaunchFailureIsTagged(t *testing.T) {
	s := newTestSession()
	s.launch = func() (*rod.Browser, error) {
		return nil, errors.New("no usable browser binary")
	}

	_, err := s.Acquire(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("error is %T, want *models.ScrapeError", err)
	}
	if scrapeErr.Code != models.ErrCodeBrowserLaunch {
		t.Errorf("code = %s, want %s", scrapeErr.Code, models.ErrCodeBrowserLaunch)
	}
}

func TestAcquire_CanceledWhileWaitingForLaunch(t *testing.T) {
	s := newTestSession()

	launchStarted := make(chan struct{})
	release := make(chan struct{})
	s.launch = func() (*rod.Browser, error) {
		close(launchStarted)
		<-release
		return nil, errors.New("synthetic launch failure")
	}

	go s.Acquire(context.Background()) //nolint:errcheck
	<-launchStarted

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Acquire(ctx)
	if err == nil {
		t.Fatal("expected cancellation error while a launch is in flight")
	}

	close(release)
}

func TestStats_FreshSession(t *testing.T) {
	s := newTestSession()
	stats := s.Stats()

	if stats.SessionID == "" {
		t.Error("SessionID must be set before launch")
	}
	if stats.Connected || stats.PageOpen || stats.CookiesLoaded {
		t.Error("fresh session must report nothing live")
	}
	if stats.Restarts != 0 {
		t.Errorf("Restarts = %d, want 0", stats.Restarts)
	}
	if !stats.LaunchedAt.IsZero() {
		t.Error("LaunchedAt must be zero before launch")
	}
}

func TestResolveBrowserBin_Override(t *testing.T) {
	bin, ok := ResolveBrowserBin("/opt/custom/chrome")
	if !ok || bin != "/opt/custom/chrome" {
		t.Errorf("ResolveBrowserBin(override) = %q, %v", bin, ok)
	}
}

func TestDefaultFingerprint(t *testing.T) {
	fp := DefaultFingerprint(config.DefaultUserAgent)
	if fp.UserAgent != config.DefaultUserAgent {
		t.Errorf("UserAgent = %q", fp.UserAgent)
	}
	if fp.ExtraHeaders["Sec-Fetch-Mode"] != "navigate" {
		t.Error("navigation headers missing")
	}
	if fp.InitScript == "" {
		t.Error("init script must not be empty")
	}
}
