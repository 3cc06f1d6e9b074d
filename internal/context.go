package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextMemberKey ctxKey = "memberID"

func MemberIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if memberID, ok := ctx.Value(ContextMemberKey).(string); ok {
		return memberID
	}
	return ""
}

func ContextWithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, ContextMemberKey, memberID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
