package client

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// callMetrics holds the metric instruments for service calls.
type callMetrics struct {
	// callDuration measures the dispatch duration in seconds.
	callDuration metric.Float64Histogram

	// callErrors counts failed calls by error type.
	callErrors metric.Int64Counter

	// responseSize measures response body sizes in bytes.
	responseSize metric.Int64Histogram
}

// newCallMetrics creates and registers the call instruments.
func newCallMetrics(meter metric.Meter) (*callMetrics, error) {
	m := &callMetrics{}
	var err error

	m.callDuration, err = meter.Float64Histogram(
		"rpc.client.call.duration",
		metric.WithDescription("Duration of service calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	m.callErrors, err = meter.Int64Counter(
		"rpc.client.call.error",
		metric.WithDescription("Number of failed service calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	m.responseSize, err = meter.Int64Histogram(
		"rpc.client.response.body.size",
		metric.WithDescription("Size of service response bodies in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(
			0, 100, 1024, 10*1024, 100*1024, 1024*1024, 10*1024*1024,
		),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordCallDuration records the dispatch duration of a call.
func (m *callMetrics) recordCallDuration(
	ctx context.Context,
	duration time.Duration,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.callDuration == nil {
		return
	}
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// recordCallError records a failed call.
func (m *callMetrics) recordCallError(
	ctx context.Context,
	errorType string,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.callErrors == nil {
		return
	}
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attrs...)
	allAttrs = append(allAttrs, attribute.String("error.type", errorType))
	m.callErrors.Add(ctx, 1, metric.WithAttributes(allAttrs...))
}

// recordResponseSize records the size of a response body.
func (m *callMetrics) recordResponseSize(
	ctx context.Context,
	size int64,
	attrs []attribute.KeyValue,
) {
	if m == nil || m.responseSize == nil {
		return
	}
	m.responseSize.Record(ctx, size, metric.WithAttributes(attrs...))
}
