package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/correlation"
)

// correlationMiddleware reuses an inbound X-Request-ID or mints a new one
// and echoes it back on the response.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(echo.HeaderXRequestID)
		if id == "" {
			id = correlation.NewID()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, id)

		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "[Server] request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	})
}
