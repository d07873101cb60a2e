// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"

	"armhub/internal/platform/correlation"
)

// Init wires the default slog logger: JSON for deployments, text for local
// runs, wrapped so correlation IDs attach to every record. Unknown level or
// format strings fall back to info/text rather than failing startup.
func Init(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(correlation.NewHandler(handler))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
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
