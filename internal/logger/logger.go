// Package logger constructs the application's structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger initializes a slog logger with the given level and format
// ("text" or "json"). When output is nil it defaults to stderr.
func NewLogger(level slog.Level, format string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	case "text":
		fallthrough
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
