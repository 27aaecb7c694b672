package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/osanchez/portfolio-gateway/internal/config"
	"github.com/osanchez/portfolio-gateway/internal/handlers"
	middlewareCustom "github.com/osanchez/portfolio-gateway/internal/middleware"
	"github.com/osanchez/portfolio-gateway/internal/repositories"
	"github.com/osanchez/portfolio-gateway/internal/routes"
	"github.com/osanchez/portfolio-gateway/internal/services"
	"github.com/osanchez/portfolio-gateway/internal/upstream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("upstream", cfg.Upstream.BaseURL))

	// Upstream client
	upstreamClient := upstream.NewClient(cfg.Upstream.BaseURL, logger)

	// Each gate owns its own ledger: a login failure must never burn
	// contact budget, and vice versa
	loginLedger := repositories.NewMemoryAttemptLedger()
	contactLedger := repositories.NewMemoryAttemptLedger()

	loginGate := services.NewLoginGate(loginLedger, upstreamClient, services.LoginGateConfig{
		MaxAttempts: cfg.RateLimit.LoginMaxAttempts,
		BanDuration: cfg.RateLimit.LoginBanDuration,
	}, logger)

	contactGate := services.NewContactGate(contactLedger, services.ContactGateConfig{
		MaxAttempts: cfg.RateLimit.ContactMaxAttempts,
		Window:      cfg.RateLimit.ContactWindow,
	}, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(loginGate)
	proxyHandler := handlers.NewProxyHandler(upstreamClient, contactGate, cfg.RateLimit.ContactPaths)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, proxyHandler, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.RateLimit.ProxyRequestsPerMinute,
	})

	// Health check with upstream reachability
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := upstreamClient.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","upstream":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","upstream":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
