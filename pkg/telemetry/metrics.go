package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for the query agent.
type Metrics struct {
	QueryDuration metric.Float64Histogram // query.server.request.duration
	QueryCount    metric.Int64Counter     // query.server.request.count

	ExtractionDuration metric.Float64Histogram // query.extractor.request.duration
	ErrorsTotal        metric.Int64Counter     // query.errors.total
}

// NewMetrics creates all metric instruments from the global MeterProvider.
func NewMetrics() *Metrics {
	meter := otel.Meter(ServiceName)
	m := &Metrics{}

	var err error

	m.QueryDuration, err = meter.Float64Histogram(
		"query.server.request.duration",
		metric.WithDescription("Duration of query execution in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		slog.Error("failed to create query.server.request.duration metric", "error", err)
	}

	m.QueryCount, err = meter.Int64Counter(
		"query.server.request.count",
		metric.WithDescription("Number of queries handled, by category, type and action"),
	)
	if err != nil {
		slog.Error("failed to create query.server.request.count metric", "error", err)
	}

	m.ExtractionDuration, err = meter.Float64Histogram(
		"query.extractor.request.duration",
		metric.WithDescription("Duration of extractor round trips in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		slog.Error("failed to create query.extractor.request.duration metric", "error", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"query.errors.total",
		metric.WithDescription("Total query handling errors"),
	)
	if err != nil {
		slog.Error("failed to create query.errors.total metric", "error", err)
	}

	return m
}

// WithAttributes is a convenience wrapper for metric.WithAttributes.
func WithAttributes(attrs ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(attrs...)
}
