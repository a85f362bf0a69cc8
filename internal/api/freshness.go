package api

import (
	"context"
	"time"
)

type cachedAfterKey struct{}

// WithCachedAfter returns a context under which reads ignore response cache
// entries stored before t and go to the network instead. The fresh response
// replaces the cached one.
func WithCachedAfter(ctx context.Context, t time.Time) context.Context {
	if t.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, cachedAfterKey{}, t)
}

func cachedAfterFrom(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(cachedAfterKey{}).(time.Time)
	return t, ok
}
