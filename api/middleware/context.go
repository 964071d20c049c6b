package middleware

import "context"

type contextKey string

const ctxProfileID contextKey = "profile_id"

func ProfileIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxProfileID).(string); ok {
		return v
	}
	return ""
}

// WithProfileID injects the storefront profile identifier into the context.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfileID, profileID)
}
