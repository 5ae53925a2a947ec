package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/predict_sentiment", s.handlePredictSentiment)
}
