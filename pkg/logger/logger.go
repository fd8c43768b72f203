package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "crop-advisor"

// New constructs the JSON slog logger used by the server.
func New() *slog.Logger {
	return newJSON(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// NewCLI writes human readable records to stderr so stdout stays free for
// command output.
func NewCLI(verbose bool) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func newJSON(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
