package config

import (
	"io"
	"log/slog"
	"os"
)

// ServiceName tags every record so EmoTune logs can be separated from the
// rest of a shared collector.
const ServiceName = "emotune"

func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

// newLogger emits JSON at Info in production and text at Debug elsewhere.
// Development builds also record the call site.
func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env == "development",
		Level:     slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", ServiceName, "env", env)
}
