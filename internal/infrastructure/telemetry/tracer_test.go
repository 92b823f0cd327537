package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false, ServiceName: "product-manager"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestEnableSpanProfiles_NoopWhenDisabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	tp.EnableSpanProfiles()
	assert.False(t, tp.IsSpanProfilesEnabled())
}

func TestEnableSpanProfiles_WrapsProvider(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	sdk := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })
	tp := &TracerProvider{provider: sdk, logger: zap.NewNop(), config: Config{ServiceName: "product-manager"}}

	tp.EnableSpanProfiles()
	tp.EnableSpanProfiles()

	assert.True(t, tp.IsSpanProfilesEnabled())
	assert.NotSame(t, sdk, otel.GetTracerProvider())
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio    float64
		contains string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, samplerFor(tt.ratio).Description(), tt.contains)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("product-manager")
	require.NoError(t, err)

	values := map[string]string{}
	for _, kv := range res.Attributes() {
		values[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "product-manager", values["service.name"])
	assert.Equal(t, serviceVersion, values["service.version"])
}
