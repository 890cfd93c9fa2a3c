package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "pricetable/internal/core/context"
)

func TestWithContext_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("trace-1", "req-1"))
	ctx = appctx.WithSessionID(ctx, "sess-1")

	l.WithContext(ctx).Infow("hello", "k", "v")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-1", fields["trace_id"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "sess-1", fields["session_id"])
	assert.Equal(t, "v", fields["k"])
}

func TestFromContext_UsesStoredLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := FromZap(zap.New(core))
	ctx := WithLogger(context.Background(), l.WithComponent("test"))

	Info(ctx, "stored")
	Debug(ctx, "below level")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "test", logs.All()[0].ContextMap()["component"])
}

func TestSetDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Default()
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(prev) })

	Debug(context.Background(), "no stored logger")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "no stored logger", logs.All()[0].Message)
}
