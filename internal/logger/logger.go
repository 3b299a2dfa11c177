// Package logger centralizes slog setup so all pipeline stages share one
// configuration.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the process default logger with the given level and
// output format ("text" or "json") and returns it.
func Setup(level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
