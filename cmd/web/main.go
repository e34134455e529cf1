package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tour-analytics/internal/config"
	"tour-analytics/internal/middleware"
	"tour-analytics/internal/observability"
	"tour-analytics/internal/server"
	"tour-analytics/internal/services"
	"tour-analytics/internal/ui/templates"
	"tour-analytics/internal/upstream"
)

const (
	renderTimeout = 10 * time.Second
	warmupTimeout = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// newHandler wires the routes behind the middleware chain. Metrics sits
// innermost so it sees the pattern the mux matched.
func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger, &server.TemplateHandlers{
		Dashboard: handleDashboard,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Metrics(),
	)

	return middlewareChain(srv)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"upstream", cfg.Upstream.String(),
		"addr", cfg.Address(),
	)

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, upstream.Session{
		Token:     cfg.Upstream.Token,
		TokenType: cfg.Upstream.TokenType,
		UserID:    cfg.Upstream.UserID,
	}, logger)
	analytics := services.NewAnalytics(client, logger)

	// A failed warm-up is not fatal: the upstream may come up after us and
	// every request fetches fresh data anyway.
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	if _, err := analytics.Snapshot(ctx); err != nil {
		logger.Warn("initial analytics load failed", "error", err)
	}
	cancel()

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("analytics", func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
