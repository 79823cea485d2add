package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/adapterkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry instruments for the adapter call path.
// A nil *Metrics is valid; every recording method is a no-op on it, so
// adapters can run without an initialized meter provider.
type Metrics struct {
	callTotal          metric.Int64Counter
	callDuration       metric.Float64Histogram
	retryTotal         metric.Int64Counter
	circuitTransitions metric.Int64Counter
	cacheHits          metric.Int64Counter
	fallbackUses       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callTotal, err := meter.Int64Counter("adapter.calls",
		metric.WithDescription("Total adapter calls by adapter and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.calls counter: %w", err)
	}

	callDuration, err := meter.Float64Histogram("adapter.call.duration",
		metric.WithDescription("Adapter call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.call.duration histogram: %w", err)
	}

	retryTotal, err := meter.Int64Counter("adapter.retries",
		metric.WithDescription("Total retry attempts by adapter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.retries counter: %w", err)
	}

	circuitTransitions, err := meter.Int64Counter("adapter.circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions by adapter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.circuit.transitions counter: %w", err)
	}

	cacheHits, err := meter.Int64Counter("adapter.cache.hits",
		metric.WithDescription("Calls served from the result cache by adapter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.cache.hits counter: %w", err)
	}

	fallbackUses, err := meter.Int64Counter("adapter.fallback.uses",
		metric.WithDescription("Calls served by the fallback response by adapter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating adapter.fallback.uses counter: %w", err)
	}

	return &Metrics{
		callTotal:          callTotal,
		callDuration:       callDuration,
		retryTotal:         retryTotal,
		circuitTransitions: circuitTransitions,
		cacheHits:          cacheHits,
		fallbackUses:       fallbackUses,
	}, nil
}

// RecordCall records one completed adapter call with its outcome.
func (m *Metrics) RecordCall(ctx context.Context, adapter, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.callTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapter),
		attribute.String("outcome", outcome),
	))
	m.callDuration.Record(ctx, float64(duration)/float64(time.Millisecond), metric.WithAttributes(
		attribute.String("adapter", adapter),
	))
}

// RecordRetries records the retry attempts spent on one call.
func (m *Metrics) RecordRetries(ctx context.Context, adapter string, retries int) {
	if m == nil || retries <= 0 {
		return
	}
	m.retryTotal.Add(ctx, int64(retries), metric.WithAttributes(
		attribute.String("adapter", adapter),
	))
}

// RecordCircuitTransition records a circuit breaker state change.
func (m *Metrics) RecordCircuitTransition(ctx context.Context, adapter, from, to string) {
	if m == nil {
		return
	}
	m.circuitTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapter),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordCacheHit records a call served from the result cache.
func (m *Metrics) RecordCacheHit(ctx context.Context, adapter string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapter),
	))
}

// RecordFallback records a call served by the fallback response.
func (m *Metrics) RecordFallback(ctx context.Context, adapter string) {
	if m == nil {
		return
	}
	m.fallbackUses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("adapter", adapter),
	))
}
