package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const instrumentationName = "etegie-bot"

// SetupTracing installs a global tracer provider that writes spans to w.
// The returned function flushes and stops it.
func SetupTracing(serviceName string, w io.Writer) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stdouttrace exporter: %w", err)
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Metrics exposes chat counters through an OpenTelemetry meter exported to Prometheus
type Metrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
	replies  metric.Int64Counter
	latency  metric.Float64Histogram
	failures metric.Int64Counter
}

// NewMetrics builds a private registry so tests can create as many as they like
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter(instrumentationName)

	replies, err := meter.Int64Counter("chat_replies",
		metric.WithDescription("Chat replies by producing stage"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("chat_reply_duration",
		metric.WithDescription("Time to produce a chat reply"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("chat_log_failures",
		metric.WithDescription("Chat exchanges that could not be persisted"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		registry: registry,
		provider: provider,
		replies:  replies,
		latency:  latency,
		failures: failures,
	}, nil
}

// RecordReply counts one reply and its latency
func (m *Metrics) RecordReply(ctx context.Context, source, channel string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("channel", channel),
	)
	m.replies.Add(ctx, 1, attrs)
	m.latency.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordLogFailure counts a chat exchange that was answered but not persisted
func (m *Metrics) RecordLogFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1)
}

// Handler serves the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Shutdown stops the meter provider
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
