// Package logger configures the process-wide structured logger and provides
// small helpers for tagging log lines by component.
package logger

import (
	"log/slog"
	"os"
)

// Setup installs a slog.Logger as the process default, formatted as either
// "json" or plain text, at the given level ("debug", "info", "warn", "error").
func Setup(level string, format string) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// WithComponent returns a logger tagged with a "component" field, used to
// tell log lines apart in a single run (the manifest and extend code use it).
func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
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
