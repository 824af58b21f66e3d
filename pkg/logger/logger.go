package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New returns slog logger writing to w. Level defaults to info on bad input,
// format is "json" (default) or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			lvl = parsed
		}
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
