// Package metrics configures the OTEL meter provider with a Prometheus reader.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider hands out meters and shuts the pipeline down.
type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

type provider struct {
	mp *sdkmetric.MeterProvider
}

// NewMetricProvider builds a Prometheus-backed meter provider and registers
// it globally so otel.Meter() picks it up.
func NewMetricProvider(opts ...OptionFn) MetricProvider {
	var cfg Config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "spreadpad"
	}

	exporter, err := prometheus.New()
	if err != nil {
		panic(err)
	}

	res, mergeErr := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	))
	if mergeErr != nil {
		res = resource.Default()
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return &provider{mp: mp}
}

func (p *provider) Meter(name string, options ...metric.MeterOption) metric.Meter {
	return p.mp.Meter(name, options...)
}

func (p *provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

// ServePrometheusMetrics starts a blocking HTTP server exposing /metrics.
func ServePrometheusMetrics(opts ...OptionFn) error {
	var cfg Config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	port := cfg.Port
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
