package profilematch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with engine-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1 << 30),
	}))}
}

// WithRef adds a reference identifier field to the logger.
func (l *Logger) WithRef(id string) *Logger {
	return &Logger{Logger: l.Logger.With("ref", id)}
}

// WithK adds a k (result count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// LogRank logs a ranking operation.
func (l *Logger) LogRank(ctx context.Context, k, resultsFound int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rank failed",
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "rank completed",
			"k", k,
			"results", resultsFound,
			"elapsed", elapsed,
		)
	}
}

// LogAddReference logs a corpus insertion.
func (l *Logger) LogAddReference(ctx context.Context, id string, tags []string) {
	l.DebugContext(ctx, "reference added",
		"id", id,
		"tags", tags,
	)
}
