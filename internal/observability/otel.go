// Package observability wires OpenTelemetry tracing and metrics with
// console, OTLP, and Prometheus exporters.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumeforge/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the custom instruments for the generation pipeline.
type Metrics struct {
	// Generation pipeline metrics, tagged with the tier that served
	// the request ("openai", "ollama", "template").
	GenerationCount    metric.Int64Counter
	GenerationDuration metric.Float64Histogram
	TierFallthroughs   metric.Int64Counter

	// Section improvement metrics.
	SectionsImproved metric.Int64Counter

	// Persistence metrics.
	ResumesSaved metric.Int64Counter

	// Infrastructure metrics.
	RateLimitHits metric.Int64Counter
}

// Manager owns the OpenTelemetry providers and exporters.
type Manager struct {
	cfg              config.ObservabilityConfig
	serviceVersion   string
	tracerProvider   *trace.TracerProvider
	meterProvider    *sdkmetric.MeterProvider
	metrics          *Metrics
	shutdownFuncs    []func(context.Context) error
	prometheusServer *http.ServeMux
}

// NewManager sets up tracing and metrics from configuration. A disabled
// config yields a manager whose middleware and tracers are no-ops.
func NewManager(cfg config.ObservabilityConfig, serviceVersion string) (*Manager, error) {
	m := &Manager{
		cfg:            cfg,
		serviceVersion: serviceVersion,
	}
	if !cfg.Enabled {
		return m, nil
	}

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return m, nil
}

func (m *Manager) resource() (*resource.Resource, error) {
	version := m.cfg.ServiceVersion
	if version == "" {
		version = m.serviceVersion
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(m.cfg.ServiceName),
		semconv.ServiceVersion(version),
	}
	if m.cfg.ServiceInstance != "" {
		attrs = append(attrs, attribute.String("service.instance.id", m.cfg.ServiceInstance))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func (m *Manager) initTracing() error {
	if !m.cfg.Tracing.Enabled {
		return nil
	}

	var exporter trace.SpanExporter
	var err error

	switch {
	case m.cfg.Console.Enabled:
		opts := []stdouttrace.Option{}
		if m.cfg.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case m.cfg.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.resource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.cfg.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	if !m.cfg.Metrics.Enabled {
		return nil
	}

	readers, err := m.setupMetricReaders()
	if err != nil {
		return err
	}

	res, err := m.resource()
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if m.cfg.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers,
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.collectionInterval())))
	}

	if m.cfg.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.cfg.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(m.cfg.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		if reader != nil {
			readers = append(readers, reader)
			m.prometheusServer = mux

			if err := StartPrometheusServer(mux, m.cfg.Prometheus.Port); err != nil {
				return nil, fmt.Errorf("failed to start Prometheus server: %w", err)
			}
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.cfg.ServiceName)
	metrics := &Metrics{}
	var err error

	metrics.GenerationCount, err = meter.Int64Counter(
		"resumeforge_generations_total",
		metric.WithDescription("Total number of resume generations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create generation count metric: %w", err)
	}

	metrics.GenerationDuration, err = meter.Float64Histogram(
		"resumeforge_generation_duration_seconds",
		metric.WithDescription("Time spent generating resumes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create generation duration metric: %w", err)
	}

	metrics.TierFallthroughs, err = meter.Int64Counter(
		"resumeforge_tier_fallthroughs_total",
		metric.WithDescription("Requests that fell past an AI tier"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tier fallthrough metric: %w", err)
	}

	metrics.SectionsImproved, err = meter.Int64Counter(
		"resumeforge_sections_improved_total",
		metric.WithDescription("Total number of sections improved"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sections improved metric: %w", err)
	}

	metrics.ResumesSaved, err = meter.Int64Counter(
		"resumeforge_resumes_saved_total",
		metric.WithDescription("Total number of resumes persisted"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes saved metric: %w", err)
	}

	metrics.RateLimitHits, err = meter.Int64Counter(
		"resumeforge_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	m.metrics = metrics
	return nil
}

// GetMetrics returns the metrics instance. Instruments are nil when
// metrics are disabled; recording helpers handle that.
func (m *Manager) GetMetrics() *Metrics {
	if m.metrics == nil {
		return &Metrics{}
	}
	return m.metrics
}

// HTTPMiddleware returns otelhttp instrumentation, or a pass-through
// when observability is disabled.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.cfg.Enabled || m.tracerProvider == nil || m.meterProvider == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		m.cfg.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the service.
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.cfg.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops all providers.
func (m *Manager) Shutdown(ctx context.Context) error {
	for _, shutdown := range m.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RecordGeneration tags one generation with the tier that served it.
func (mx *Metrics) RecordGeneration(ctx context.Context, provider string, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("success", success),
	)
	if mx.GenerationCount != nil {
		mx.GenerationCount.Add(ctx, 1, attrs)
	}
	if mx.GenerationDuration != nil {
		mx.GenerationDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordTierFallthrough counts a request falling past the named tier.
func (mx *Metrics) RecordTierFallthrough(ctx context.Context, provider string) {
	if mx.TierFallthroughs != nil {
		mx.TierFallthroughs.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
	}
}

// RecordSectionImproved counts one section improvement.
func (mx *Metrics) RecordSectionImproved(ctx context.Context, provider, sectionKey string) {
	if mx.SectionsImproved != nil {
		mx.SectionsImproved.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("section", sectionKey),
		))
	}
}

// RecordResumeSaved counts one persisted record.
func (mx *Metrics) RecordResumeSaved(ctx context.Context, driver string) {
	if mx.ResumesSaved != nil {
		mx.ResumesSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("driver", driver)))
	}
}

// RecordRateLimitHit counts one rejected request.
func (mx *Metrics) RecordRateLimitHit(ctx context.Context, keyType string) {
	if mx.RateLimitHits != nil {
		mx.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("key_type", keyType)))
	}
}

func (m *Manager) collectionInterval() time.Duration {
	if m.cfg.Metrics.CollectionInterval > 0 {
		return m.cfg.Metrics.CollectionInterval
	}
	return 15 * time.Second
}

type noOpSpanExporter struct{}

func (n *noOpSpanExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	return nil
}

func (n *noOpSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.cfg.OTLP.Endpoint),
	}
	if m.cfg.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.cfg.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.cfg.OTLP.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.collectionInterval())), nil
}
