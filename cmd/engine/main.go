// Package main is the entry point for the recommendation engine server.
// It wires the stores and scoring components, exposes health and
// metrics endpoints and sweeps ended competition rounds. The product
// HTTP API lives in the surrounding service, not here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/reelrally/reelrally/internal/competition"
	"github.com/reelrally/reelrally/internal/config"
	"github.com/reelrally/reelrally/internal/creator"
	"github.com/reelrally/reelrally/internal/db"
	"github.com/reelrally/reelrally/internal/health"
	"github.com/reelrally/reelrally/internal/middleware"
	"github.com/reelrally/reelrally/internal/scoring"
	"github.com/reelrally/reelrally/internal/video"
)

// finalizeSweepInterval is how often ended rounds are checked for.
const finalizeSweepInterval = time.Minute

// healthChecker is implemented by the per-dependency checkers.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("ReelRally Engine Server")
		fmt.Println()
		fmt.Println("Usage: engine [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		}
		os.Exit(1)
	}

	// Initialize logger
	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Stores
	videos := video.NewPostgresVideoRepository(conn)
	creators := creator.NewPostgresCreatorRepository(conn)
	rounds := competition.NewPostgresRoundRepository(conn)
	tunables := scoring.NewPostgresTunablesRepository(conn)
	leaderboard := competition.NewLeaderboard(redisClient)

	// Metrics
	registry := prometheus.NewRegistry()
	competitionMetrics := competition.NewMetrics()
	if err := competitionMetrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	finalizer := competition.NewFinalizer(rounds, videos, creators, tunables, leaderboard, competitionMetrics, logger)

	checkers := map[string]healthChecker{
		"database": health.NewDBChecker(conn),
		"redis":    health.NewRedisChecker(redisClient),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{"status": "healthy"}
		for name, checker := range checkers {
			if err := checker.HealthCheck(ctx); err != nil {
				logger.Error("health check failed", "dependency", name, "error", err)
				status = http.StatusServiceUnavailable
				result["status"] = "unhealthy"
				result[name] = err.Error()
			} else {
				result[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"reelrally-engine","version":"0.0.1"}`)); err != nil {
			logger.Error("failed to write response", "error", err)
		}
	})

	// Apply middleware: RequestID -> Logging
	handler := middleware.RequestID(middleware.Logging(logger)(mux))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runFinalizeSweep(sweepCtx, finalizer, rounds, logger)

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopSweep()

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// runFinalizeSweep periodically checks whether the active round has
// passed its end time and finalizes it. Failures are logged and
// retried on the next tick.
func runFinalizeSweep(ctx context.Context, finalizer *competition.Finalizer, rounds competition.RoundRepository, logger *slog.Logger) {
	ticker := time.NewTicker(finalizeSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		round, err := rounds.GetActive(ctx)
		if err != nil {
			logger.Error("failed to load active round", "error", err)
			continue
		}
		if round == nil || time.Now().Before(round.EndAt) {
			continue
		}

		standings, err := finalizer.Finalize(ctx, round.ID)
		if err != nil {
			logger.Error("failed to finalize round", "round_id", round.ID, "error", err)
			continue
		}
		logger.Info("round finalized", "round_id", round.ID, "standings", len(standings))
	}
}

