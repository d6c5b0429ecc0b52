package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/config"
	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/handler"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/client"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/ratelimit"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/resilience"
	"github.com/rentpulse/rentpulse-assistant-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("demand_api_url", cfg.DemandAPIURL),
		zap.String("gap_api_url", cfg.GapAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("rate_limit_rpm", cfg.RateLimitRPM),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "rentpulse-assistant")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("forecast-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	demandClient := client.NewDemandClient(httpClient, cfg.DemandAPIURL, cb, resilienceCfg)
	gapClient := client.NewGapClient(httpClient, cfg.GapAPIURL, cb, resilienceCfg)

	// --- City bootstrap ---
	cities := service.BootstrapCities(context.Background(), demandClient, logger)

	// --- Services ---
	rankings := service.NewRankings(demandClient, cities, cfg.RankingsTTL, logger)
	sessions := service.NewSessionManager(cfg.SessionTTL, metrics, logger)

	// --- Engine ---
	eng := engine.New(demandClient, gapClient, demandClient, rankings, cities, metrics, logger)

	// --- Rate limiting ---
	limiter := ratelimit.NewPerClient(cfg.RateLimitRPM)

	// --- Router ---
	router := handler.NewRouter(eng, sessions, limiter, cfg.JWTSecret, cfg.MaxQueryLen, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
