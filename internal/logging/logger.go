package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Oualid-Nouari/CineMood-sentiment-analysis/internal/correlation"
)

// InitLogger installs the default slog logger. format "json" writes JSON
// lines, anything else writes colored text.
func InitLogger(level, format string) {
	slog.SetDefault(NewLogger(os.Stdout, level, format))
}

func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     lvl,
			AddSource: true,
		})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	}

	return slog.New(correlation.NewHandler(handler))
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting
// to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
