package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldKeys(entry observer.LoggedEntry) []string {
	keys := make([]string, 0, len(entry.Context))
	for _, f := range entry.Context {
		keys = append(keys, f.Key)
	}
	return keys
}

func TestWithCalculation_NestedCallsDoNotRepeatFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithCalculation(ctx, "42", "OpenWizard")
	ctx = AddFields(ctx, zap.String("path", "/new-calculation"))
	ctx = WithCalculation(ctx, "42", "open_wizard")
	ctxzap.Info(ctx, "opened")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.ElementsMatch(t, []string{"calculation_id", "path", "action"}, fieldKeys(entry))
	assert.Equal(t, "open_wizard", entry.ContextMap()["action"])
}

func TestWithAction_ReplacesPreviousAction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "first")
	ctx = WithAction(ctx, "second")
	ctxzap.Info(ctx, "done")

	entry := logs.All()[0]
	assert.Equal(t, []string{"action"}, fieldKeys(entry))
	assert.Equal(t, "second", entry.ContextMap()["action"])
}

func TestWithCalculation_OtherCalculationAddsField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithCalculation(ctx, "1", "a")
	ctx = WithCalculation(ctx, "2", "b")
	ctxzap.Info(ctx, "done")

	assert.Len(t, logs.All()[0].Context, 3)
}
