package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// With attaches fields to the logger carried by ctx, so request-scoped
// attributes like the trace id follow the call chain.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, From(ctx).With(fields...))
}

// From returns the logger carried by ctx, falling back to the process-wide
// logger when the request never attached one.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
