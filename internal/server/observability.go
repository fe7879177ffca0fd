package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/eventify/eventify-go/internal/app/observability/metrics"
	"github.com/eventify/eventify-go/internal/app/observability/tracer"
)

// InitObservability brings up the OTel providers, the Prometheus scrape
// endpoint and the application metric instruments, in that order: the
// instruments bind to whatever MeterProvider is global when they are
// created. The returned function shuts the providers down.
func InitObservability(serviceName, metricsAddr string, logger *zap.Logger) (func(context.Context) error, error) {
	shutdown, err := tracer.InitOtelProviders(serviceName, metricsAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics.InitAppMetrics()

	logger.Info("Observability initialized",
		zap.String("service", serviceName),
		zap.String("metrics_endpoint", metricsAddr+"/metrics"))
	return shutdown, nil
}
