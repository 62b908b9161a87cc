package cctx

import (
	"context"

	"go.uber.org/zap"
)

func WithValues(parent context.Context, values ...interface{}) (ctx context.Context) {
	if len(values)%2 != 0 {
		panic("uneven")
	}

	ctx = parent
	for i := 0; i < len(values); i += 2 {
		ctx = context.WithValue(ctx, values[i], values[i+1])
	}
	return
}

// RequestIDFrom returns the request id stored in ctx, or an empty string.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(RequestID).(string)
	return rid
}

// Logger returns the global logger annotated with the request id of ctx.
func Logger(ctx context.Context) *zap.Logger {
	if rid := RequestIDFrom(ctx); rid != "" {
		return zap.L().With(zap.String("request_id", rid))
	}
	return zap.L()
}
