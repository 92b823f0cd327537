package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextValues(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = WithSessionID(ctx, "sess-1")
	ctx, _ = WithUserID(ctx, zap.NewNop(), "user-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "sess-1", GetSessionID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))

	empty := context.Background()
	assert.Empty(t, GetRequestID(empty))
	assert.Empty(t, GetSessionID(empty))
	assert.Empty(t, GetUserID(empty))
}

func TestWithUserID_EnrichesLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithUserID(context.Background(), zap.New(core), "42")
	enriched.Info("authenticated")
	FromContext(ctx).Info("from context")

	require.Equal(t, 2, recorded.Len())
	for _, entry := range recorded.All() {
		assert.Equal(t, "42", entry.ContextMap()["user_id"])
	}
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
}
