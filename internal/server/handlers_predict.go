package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/metrics"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/models"
	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/sentiment"
)

const (
	msgModelNotReady   = "Sentiment analysis model is not ready."
	msgRequestNotJSON  = "Request must be JSON"
	msgMissingReview   = "Missing 'review_text' in request body"
	msgPredictionError = "An error occurred during sentiment prediction."
)

func (s *Server) handlePredictSentiment(c echo.Context) error {
	ctx := c.Request().Context()

	if !s.predictor.Ready() {
		metrics.PredictionErrors.WithLabelValues("model_unavailable").Inc()
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: msgModelNotReady})
	}

	if !isJSON(c.Request().Header.Get(echo.HeaderContentType)) {
		metrics.PredictionErrors.WithLabelValues("invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgRequestNotJSON})
	}

	var body map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		metrics.PredictionErrors.WithLabelValues("invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgRequestNotJSON})
	}

	// Exact key match; non-string values count as missing.
	reviewText, _ := body["review_text"].(string)
	if reviewText == "" {
		metrics.PredictionErrors.WithLabelValues("invalid_request").Inc()
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMissingReview})
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetPrediction(ctx, reviewText); ok {
			metrics.PredictionsTotal.WithLabelValues(string(cached.Sentiment)).Inc()
			return c.JSON(http.StatusOK, cached)
		}
	}

	start := time.Now()
	result, err := s.safePredict(reviewText)
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		kind := "internal"
		if errors.Is(err, sentiment.ErrModelUnavailable) {
			kind = "model_unavailable"
		}
		metrics.PredictionErrors.WithLabelValues(kind).Inc()
		slog.ErrorContext(ctx, "[Server] Error during prediction", slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgPredictionError})
	}

	metrics.PredictionsTotal.WithLabelValues(string(result.Sentiment)).Inc()
	if s.cache != nil {
		s.cache.StorePrediction(ctx, reviewText, result)
	}

	return c.JSON(http.StatusOK, result)
}

// safePredict turns a panic inside the pipeline into an error.
func (s *Server) safePredict(text string) (result sentiment.PredictionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prediction panicked: %v", r)
		}
	}()
	return s.predictor.Predict(text)
}

// isJSON accepts application/json and any application/*+json type.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType == echo.MIMEApplicationJSON {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}
