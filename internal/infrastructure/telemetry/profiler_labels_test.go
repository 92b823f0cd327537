package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithProfilingLabels(t *testing.T) {
	t.Run("labels are visible inside fn", func(t *testing.T) {
		var route, method string
		WithProfilingLabels(context.Background(), map[string]string{
			ProfilingLabelRoute:  "/api/products/:id",
			ProfilingLabelMethod: "GET",
		}, func(ctx context.Context) {
			route, _ = pprof.Label(ctx, ProfilingLabelRoute)
			method, _ = pprof.Label(ctx, ProfilingLabelMethod)
		})

		assert.Equal(t, "/api/products/:id", route)
		assert.Equal(t, "GET", method)
	})

	t.Run("empty values are dropped", func(t *testing.T) {
		called := false
		WithProfilingLabels(context.Background(), map[string]string{ProfilingLabelController: ""}, func(ctx context.Context) {
			called = true
			_, ok := pprof.Label(ctx, ProfilingLabelController)
			assert.False(t, ok)
		})
		assert.True(t, called)
	})
}
