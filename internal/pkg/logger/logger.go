package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type (
	// actionlessKey holds the context logger without its action field
	actionlessKey  struct{}
	calculationKey struct{}
)

// AddFields adds fields to the logger in context and returns new context
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
	if base, ok := ctx.Value(actionlessKey{}).(*zap.Logger); ok {
		ctx = context.WithValue(ctx, actionlessKey{}, base.With(fields...))
	}
	return ctx
}

// WithAction sets the "action" field. An action set earlier in the chain is replaced.
func WithAction(ctx context.Context, action string) context.Context {
	base, ok := ctx.Value(actionlessKey{}).(*zap.Logger)
	if !ok {
		base = ctxzap.Extract(ctx)
		ctx = context.WithValue(ctx, actionlessKey{}, base)
	}
	return ctxzap.ToContext(ctx, base.With(zap.String("action", action)))
}

// WithCalculation scopes the context logger to one calculation wizard.
// The id field is added once per chain.
func WithCalculation(ctx context.Context, calculationID string, action string) context.Context {
	if cur, _ := ctx.Value(calculationKey{}).(string); cur != calculationID {
		ctx = AddFields(ctx, zap.String("calculation_id", calculationID))
		ctx = context.WithValue(ctx, calculationKey{}, calculationID)
	}
	return WithAction(ctx, action)
}
