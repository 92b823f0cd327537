package telemetry

import (
	"context"
	"time"

	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "product-manager"

// AppMetrics records assistant and export instrumentation
type AppMetrics struct {
	actions     metric.Int64Counter
	llmCalls    metric.Int64Counter
	llmDuration metric.Float64Histogram
	exports     metric.Int64Counter
	exportBytes metric.Int64Histogram
}

// NewAppMetrics creates the application instruments on the given meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	actions, err := meter.Int64Counter("assistant.actions",
		metric.WithDescription("Catalog actions executed from chat replies"),
		metric.WithUnit("{action}"))
	if err != nil {
		return nil, err
	}
	llmCalls, err := meter.Int64Counter("llm.calls",
		metric.WithDescription("Language model requests"),
		metric.WithUnit("{call}"))
	if err != nil {
		return nil, err
	}
	llmDuration, err := meter.Float64Histogram("llm.duration",
		metric.WithDescription("Language model request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.25, 0.5, 1, 2, 5, 10, 20, 40, 60))
	if err != nil {
		return nil, err
	}
	exports, err := meter.Int64Counter("export.files",
		metric.WithDescription("Generated export files"),
		metric.WithUnit("{file}"))
	if err != nil {
		return nil, err
	}
	exportBytes, err := meter.Int64Histogram("export.size",
		metric.WithDescription("Size of generated export files"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}

	return &AppMetrics{
		actions:     actions,
		llmCalls:    llmCalls,
		llmDuration: llmDuration,
		exports:     exports,
		exportBytes: exportBytes,
	}, nil
}

// NewAppMetricsFromProvider uses the provider's meter for the application instruments
func NewAppMetricsFromProvider(mp *MeterProvider) (*AppMetrics, error) {
	return NewAppMetrics(mp.Meter(meterName))
}

// RecordAction counts one executed chat action
func (m *AppMetrics) RecordAction(ctx context.Context, action assistant.ActionType, success bool) {
	m.actions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", string(action)),
		attribute.Bool("success", success),
	))
}

// RecordLLMCall records one language model round-trip
func (m *AppMetrics) RecordLLMCall(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("error", err != nil))
	m.llmCalls.Add(ctx, 1, attrs)
	m.llmDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordExport counts one export attempt and the size of successful files
func (m *AppMetrics) RecordExport(ctx context.Context, kind string, size int, err error) {
	m.exports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("error", err != nil),
	))
	if err == nil {
		m.exportBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("kind", kind)))
	}
}
