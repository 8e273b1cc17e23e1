package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Reply outcomes reported by the stream service.
const (
	ReplyCompleted = "completed"
	ReplyCancelled = "cancelled"
	ReplyFailed    = "failed"
)

// StreamMetrics records websocket activity.
type StreamMetrics interface {
	// ConnectionOpened and ConnectionClosed move the open connection gauge.
	ConnectionOpened(ctx context.Context)
	ConnectionClosed(ctx context.Context)

	// RecordFragment counts one assistant fragment broadcast to deliveries room members.
	RecordFragment(ctx context.Context, deliveries int)

	// RecordReply counts a finished reply by outcome.
	RecordReply(ctx context.Context, outcome string)
}

type streamMetrics struct {
	connections metric.Int64UpDownCounter
	fragments   metric.Int64Counter
	deliveries  metric.Int64Counter
	replies     metric.Int64Counter
}

// NewStreamMetrics creates the stream instruments on meterProvider.
func NewStreamMetrics(meterProvider metric.MeterProvider, namespace string) (StreamMetrics, error) {
	meter := meterProvider.Meter(namespace)

	connections, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_stream_connections", namespace),
		metric.WithDescription("Open websocket connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection gauge: %w", err)
	}

	fragments, err := meter.Int64Counter(
		fmt.Sprintf("%s_stream_fragments_total", namespace),
		metric.WithDescription("Assistant fragments broadcast"),
		metric.WithUnit("{fragment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fragment counter: %w", err)
	}

	deliveries, err := meter.Int64Counter(
		fmt.Sprintf("%s_stream_deliveries_total", namespace),
		metric.WithDescription("Frames enqueued on room members"),
		metric.WithUnit("{frame}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery counter: %w", err)
	}

	replies, err := meter.Int64Counter(
		fmt.Sprintf("%s_stream_replies_total", namespace),
		metric.WithDescription("Assistant replies by outcome"),
		metric.WithUnit("{reply}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply counter: %w", err)
	}

	return &streamMetrics{
		connections: connections,
		fragments:   fragments,
		deliveries:  deliveries,
		replies:     replies,
	}, nil
}

func (s *streamMetrics) ConnectionOpened(ctx context.Context) {
	s.connections.Add(ctx, 1)
}

func (s *streamMetrics) ConnectionClosed(ctx context.Context) {
	s.connections.Add(ctx, -1)
}

func (s *streamMetrics) RecordFragment(ctx context.Context, deliveries int) {
	s.fragments.Add(ctx, 1)
	s.deliveries.Add(ctx, int64(deliveries))
}

func (s *streamMetrics) RecordReply(ctx context.Context, outcome string) {
	s.replies.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// NoOpStreamMetrics discards everything.
type NoOpStreamMetrics struct{}

// NewNoOpStreamMetrics creates a no-op StreamMetrics implementation.
func NewNoOpStreamMetrics() StreamMetrics {
	return &NoOpStreamMetrics{}
}

func (n *NoOpStreamMetrics) ConnectionOpened(ctx context.Context) {}

func (n *NoOpStreamMetrics) ConnectionClosed(ctx context.Context) {}

func (n *NoOpStreamMetrics) RecordFragment(ctx context.Context, deliveries int) {}

func (n *NoOpStreamMetrics) RecordReply(ctx context.Context, outcome string) {}
