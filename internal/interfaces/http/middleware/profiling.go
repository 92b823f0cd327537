package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/partnerpro/product-manager/internal/infrastructure/telemetry"
)

// profilingSkipPrefixes are not worth labelling
var profilingSkipPrefixes = []string{"/health", "/swagger"}

// Profiling tags CPU and heap samples taken while a request is served with
// its method, route pattern and controller, e.g. "ai" for /api/ai/chat
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range profilingSkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: controllerFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// controllerFromRoute returns the first static segment after /api
func controllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}
