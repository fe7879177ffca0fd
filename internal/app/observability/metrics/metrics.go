package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	AuthRequestsTotal   metric.Int64Counter
	SearchRequestsTotal metric.Int64Counter
	DBQueryErrorsTotal  metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("eventify")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"search_requests_total",
			metric.WithDescription("Total number of event search requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create search_requests_total: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of backend read failures behind degraded responses"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordDBQueryError increments the DB error counter. No-op when metrics are
// uninitialized, so service code exercised by unit tests can call it freely.
func RecordDBQueryError(ctx context.Context, operation string) {
	if appMetrics == nil {
		return
	}
	appMetrics.DBQueryErrorsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)))
}

// CacheCounters is a point-in-time snapshot of one cache's counters.
type CacheCounters struct {
	Hits   int64
	Misses int64
	Stale  int64
}

// RegisterCacheObserver exports per-cache hit/miss/stale counters. The
// snapshot function is polled on every metrics collection.
func RegisterCacheObserver(snapshot func() map[string]CacheCounters) error {
	meter := otel.GetMeterProvider().Meter("eventify")

	hits, err := meter.Int64ObservableCounter(
		"cache_hits_total",
		metric.WithDescription("Total number of fresh cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}
	misses, err := meter.Int64ObservableCounter(
		"cache_misses_total",
		metric.WithDescription("Total number of cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}
	stale, err := meter.Int64ObservableCounter(
		"cache_stale_reads_total",
		metric.WithDescription("Total number of stale cache reads served as fallback"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for name, c := range snapshot() {
			attrs := metric.WithAttributes(attribute.String("cache", name))
			o.ObserveInt64(hits, c.Hits, attrs)
			o.ObserveInt64(misses, c.Misses, attrs)
			o.ObserveInt64(stale, c.Stale, attrs)
		}
		return nil
	}, hits, misses, stale)
	return err
}
