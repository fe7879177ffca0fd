package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/eventify/eventify-go/internal/app/observability/metrics"
)

// MetricsMiddleware records request counts and durations for every route,
// plus dedicated counters for the auth and search endpoints.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		m := metrics.Get()
		m.HTTPRequestsTotal.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
				attribute.String("status", strconv.Itoa(statusCode)),
			))

		m.HTTPRequestDuration.Record(context.Background(), duration,
			metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("path", path),
			))

		switch path {
		case "/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh":
			m.AuthRequestsTotal.Add(context.Background(), 1,
				metric.WithAttributes(
					attribute.String("endpoint", path),
					attribute.String("status", strconv.Itoa(statusCode)),
				))
		case "/api/v1/events/search":
			m.SearchRequestsTotal.Add(context.Background(), 1,
				metric.WithAttributes(
					attribute.String("endpoint", path),
				))
		}
	}
}
