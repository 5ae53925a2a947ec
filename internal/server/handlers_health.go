package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/models"
)

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// handleReadiness reports 503 until the models are loaded and every
// registered dependency answers.
func (s *Server) handleReadiness(c echo.Context) error {
	if !s.predictor.Ready() {
		msg := "models not loaded"
		if err := s.predictor.LoadError(); err != nil {
			msg = err.Error()
		}
		return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable", Error: msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	for _, check := range s.healthChecks {
		if err := check.Check(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status: "unavailable",
				Error:  check.Name + ": " + err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, models.HealthResponse{Status: "ready"})
}
