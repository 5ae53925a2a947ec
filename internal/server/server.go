package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/config"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

// predictor is the slice of sentiment.Predictor the handlers use.
type predictor interface {
	Ready() bool
	LoadError() error
	Predict(text string) (sentiment.PredictionResult, error)
}

// ResultCache stores finished predictions keyed by review text. Both
// methods swallow their own failures.
type ResultCache interface {
	GetPrediction(ctx context.Context, text string) (sentiment.PredictionResult, bool)
	StorePrediction(ctx context.Context, text string, result sentiment.PredictionResult)
}

// HealthCheck is a named dependency probe run by /health/ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	predictor    predictor
	cache        ResultCache
	healthChecks []HealthCheck
}

type Option func(*Server)

func WithResultCache(cache ResultCache) Option {
	return func(s *Server) {
		s.cache = cache
	}
}

func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthChecks = append(s.healthChecks, HealthCheck{Name: name, Check: check})
	}
}

func NewServer(cfg *config.Config, p predictor, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:      e,
		config:    cfg,
		predictor: p,
	}
	for _, opt := range opts {
		opt(srv)
	}

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Origins(),
	}))
	e.Use(middleware.ContextTimeout(cfg.RequestTimeout))

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", "port", s.config.Port, "models_ready", s.predictor.Ready())
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
