package utils

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

func FmtErrorf(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger writing to w. Verbose forces debug level.
func NewLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	l := ParseLevel(level)
	if verbose {
		l = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
