// Package logger builds the structured slog logger shared by the stores and
// the CLI.
//
// Production environments get a JSON handler for log aggregators; anything
// else gets the human-readable text handler:
//
//	log := logger.New("production", "info", os.Stderr)
//	log.Info("order recorded", "order_id", id)
//	// → {"time":"...","level":"INFO","msg":"order recorded","order_id":"..."}
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// New returns a logger for env writing to w. An empty or unknown level
// falls back to INFO in production and DEBUG elsewhere.
func New(env, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(env, level)}

	var handler slog.Handler
	if isProduction(env) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func isProduction(env string) bool {
	switch strings.ToLower(env) {
	case "production", "prod":
		return true
	default:
		return false
	}
}

func parseLevel(env, level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err == nil && level != "" {
		return l
	}

	if isProduction(env) {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// ctxKey is the unexported key used to store a *slog.Logger in a context.
type ctxKey struct{}

// WithContext stores log in ctx.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored by WithContext, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
