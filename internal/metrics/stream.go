package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// StreamMetrics records playback stream activity.
type StreamMetrics interface {
	// StreamStarted marks a stream as in flight.
	StreamStarted(ctx context.Context, partial bool)
	// StreamFinished marks a stream as done and records how many plaintext bytes were sent.
	// Status examples: "success", "aborted"
	StreamFinished(ctx context.Context, partial bool, bytes int64, status string)
}

// streamMetrics implements StreamMetrics using OpenTelemetry metrics.
type streamMetrics struct {
	activeStreams metric.Int64UpDownCounter
	bytesCounter  metric.Int64Counter
	streamCounter metric.Int64Counter
}

// NewStreamMetrics creates a StreamMetrics implementation using the provided meter provider.
func NewStreamMetrics(meterProvider metric.MeterProvider, namespace string) (StreamMetrics, error) {
	meter := meterProvider.Meter(namespace)

	activeStreams, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_active_streams", namespace),
		metric.WithDescription("Number of playback streams currently being served"),
		metric.WithUnit("{stream}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active streams counter: %w", err)
	}

	bytesCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_stream_bytes_total", namespace),
		metric.WithDescription("Total plaintext bytes sent to playback clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream bytes counter: %w", err)
	}

	streamCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_streams_total", namespace),
		metric.WithDescription("Total number of finished playback streams"),
		metric.WithUnit("{stream}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create streams counter: %w", err)
	}

	return &streamMetrics{
		activeStreams: activeStreams,
		bytesCounter:  bytesCounter,
		streamCounter: streamCounter,
	}, nil
}

// StreamStarted increments the active stream gauge.
func (s *streamMetrics) StreamStarted(ctx context.Context, partial bool) {
	s.activeStreams.Add(ctx, 1,
		metric.WithAttributes(attribute.String("partial", strconv.FormatBool(partial))),
	)
}

// StreamFinished decrements the active stream gauge and records sent bytes.
func (s *streamMetrics) StreamFinished(ctx context.Context, partial bool, bytes int64, status string) {
	partialAttr := attribute.String("partial", strconv.FormatBool(partial))

	s.activeStreams.Add(ctx, -1, metric.WithAttributes(partialAttr))
	s.bytesCounter.Add(ctx, bytes,
		metric.WithAttributes(partialAttr, attribute.String("status", status)),
	)
	s.streamCounter.Add(ctx, 1,
		metric.WithAttributes(partialAttr, attribute.String("status", status)),
	)
}

// NoOpStreamMetrics is a no-op implementation of StreamMetrics for when metrics are disabled.
type NoOpStreamMetrics struct{}

// NewNoOpStreamMetrics creates a no-op StreamMetrics implementation.
func NewNoOpStreamMetrics() StreamMetrics {
	return &NoOpStreamMetrics{}
}

// StreamStarted does nothing when metrics are disabled.
func (n *NoOpStreamMetrics) StreamStarted(ctx context.Context, partial bool) {}

// StreamFinished does nothing when metrics are disabled.
func (n *NoOpStreamMetrics) StreamFinished(ctx context.Context, partial bool, bytes int64, status string) {
}
