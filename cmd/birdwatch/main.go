package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/birdwatch-dev/birdwatch/api"
	"github.com/birdwatch-dev/birdwatch/cache"
	"github.com/birdwatch-dev/birdwatch/config"
	"github.com/birdwatch-dev/birdwatch/scraper"
	"github.com/birdwatch-dev/birdwatch/session"
	"github.com/birdwatch-dev/birdwatch/webhook"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load() // .env is optional; env vars win either way
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("birdwatch starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"headless", cfg.Browser.Headless,
	)

	// ── 3. Create the browser session (lazy: first scrape launches) ──
	sess := session.New(cfg.Browser)
	defer sess.Shutdown()

	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	go sess.HealthLoop(healthCtx)

	// ── 4. Scrape service + result cache + optional webhooks ────────
	svc := scraper.New(sess, cfg.Scraper)
	if n := webhook.NewNotifier(cfg.Webhook.URL, cfg.Webhook.Secret); n != nil {
		svc.SetNotifier(n)
		slog.Info("webhook delivery enabled", "url", cfg.Webhook.URL)
	}
	cc := cache.New(cfg.Cache.MaxEntries)

	// ── 5. Setup router ──────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(svc, cfg, cc, startTime)

	// ── 6. Start HTTP server ─────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// sess.Shutdown() runs via defer — closes the page and Chromium.
	slog.Info("birdwatch stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
