package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/config"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/clients"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/logging"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/server"
)

func setupConfig() *config.Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupPredictor never fails: a predictor that could not load its models
// keeps the process up and answers 503.
func setupPredictor(cfg *config.Config) *sentiment.Predictor {
	p, err := sentiment.LoadPredictor(sentiment.ModelConfig{
		EmbeddingsPath:  cfg.EmbeddingsPath,
		EmbeddingDim:    cfg.EmbeddingDim,
		ClassifierPath:  cfg.ClassifierPath,
		StopwordsSource: cfg.StopwordsSource,
		Threshold:       cfg.ConfidenceThreshold,
	})
	if err != nil {
		slog.Error("CRITICAL: classifier or embeddings failed to load. API will not function correctly.",
			slog.String("error", err.Error()))
		metrics.ModelsReady.Set(0)
		return sentiment.Unavailable(err)
	}

	metrics.ModelsReady.Set(1)
	return p
}

func setupCache(ctx context.Context, cfg *config.Config) *clients.ValkeyClient {
	if !cfg.CacheEnabled {
		return nil
	}

	vc, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		UseTLS:   cfg.ValkeyTLS,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		slog.Warn("[Main] Result cache disabled", slog.String("error", err.Error()))
		return nil
	}
	return vc
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	predictor := setupPredictor(cfg)

	var opts []server.Option
	if cache := setupCache(context.Background(), cfg); cache != nil {
		defer cache.Close()
		opts = append(opts, server.WithResultCache(cache), server.WithHealthCheck("valkey", cache.Ping))
	}

	srv := server.NewServer(cfg, predictor, opts...)
	done := runGracefulShutdown(srv)

	if predictor.Ready() {
		slog.Info("Models loaded. Starting server", "port", cfg.Port)
	}
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Server stopped")
}
