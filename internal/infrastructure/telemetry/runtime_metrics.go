// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RuntimeMetrics tracks what the client runtime does against the platform:
// REST traffic, push events folded into state, channel health, and snapshot
// persistence.
//
// All recording methods are safe to call on a nil receiver, so components
// can hold a nil *RuntimeMetrics when metrics are not wired.
type RuntimeMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	apiRequestsTotal   *Counter
	pushEventsTotal    *Counter
	reconnectsTotal    *Counter
	snapshotSavesTotal *Counter

	// Distribution metrics
	apiRequestDuration   *Histogram
	snapshotSaveDuration *Histogram

	// Gauge metrics (point-in-time values)
	channelUp *Gauge
}

// RuntimeMetricsConfig holds configuration for runtime metrics.
type RuntimeMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// Outcome labels the result of an operation for metrics.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeError        Outcome = "error"
	OutcomeUnauthorized Outcome = "unauthorized"
)

// NewRuntimeMetrics creates a new RuntimeMetrics instance.
func NewRuntimeMetrics(cfg RuntimeMetricsConfig) (*RuntimeMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rm := &RuntimeMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	rm.apiRequestsTotal, err = NewCounter(
		cfg.Meter,
		"commerce_client_api_requests_total",
		"Total REST requests issued against the platform",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	rm.apiRequestDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "commerce_client_api_request_duration_seconds",
		Description: "Platform REST request duration",
		Unit:        "s",
		Boundaries:  APIDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	rm.pushEventsTotal, err = NewCounter(
		cfg.Meter,
		"commerce_client_push_events_total",
		"Total live channel events folded into state",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	rm.reconnectsTotal, err = NewCounter(
		cfg.Meter,
		"commerce_client_channel_reconnects_total",
		"Total live channel reconnect attempts",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}

	rm.channelUp, err = NewGauge(
		cfg.Meter,
		"commerce_client_channel_up",
		"Live channel connectivity: 1 when connected, 0 otherwise",
		"{state}",
	)
	if err != nil {
		return nil, err
	}

	rm.snapshotSavesTotal, err = NewCounter(
		cfg.Meter,
		"commerce_client_snapshot_saves_total",
		"Total snapshot persistence attempts",
		"{saves}",
	)
	if err != nil {
		return nil, err
	}

	rm.snapshotSaveDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "commerce_client_snapshot_save_duration_seconds",
		Description: "Snapshot persistence duration",
		Unit:        "s",
		Boundaries:  SnapshotDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// RecordAPIRequest records one REST call against the platform.
func (rm *RuntimeMetrics) RecordAPIRequest(ctx context.Context, operation string, outcome Outcome, elapsed time.Duration) {
	if rm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrOperation.String(operation),
		AttrOutcome.String(string(outcome)),
	}
	rm.apiRequestsTotal.Inc(ctx, attrs...)
	rm.apiRequestDuration.RecordDuration(ctx, elapsed, attrs...)
}

// RecordPushEvent records one event received on the live channel.
func (rm *RuntimeMetrics) RecordPushEvent(ctx context.Context, event string) {
	if rm == nil {
		return
	}
	rm.pushEventsTotal.Inc(ctx, AttrEvent.String(event))
}

// RecordReconnect records one reconnect attempt on the live channel.
func (rm *RuntimeMetrics) RecordReconnect(ctx context.Context) {
	if rm == nil {
		return
	}
	rm.reconnectsTotal.Inc(ctx)
}

// RecordChannelUp records the current channel connectivity as a 0/1 gauge.
func (rm *RuntimeMetrics) RecordChannelUp(ctx context.Context, connected bool) {
	if rm == nil {
		return
	}
	var v int64
	if connected {
		v = 1
	}
	rm.channelUp.Record(ctx, v)
}

// RecordSnapshotSave records one snapshot persistence attempt.
func (rm *RuntimeMetrics) RecordSnapshotSave(ctx context.Context, backend string, outcome Outcome, elapsed time.Duration) {
	if rm == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrBackend.String(backend),
		AttrOutcome.String(string(outcome)),
	}
	rm.snapshotSavesTotal.Inc(ctx, attrs...)
	rm.snapshotSaveDuration.RecordDuration(ctx, elapsed, attrs...)
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewRuntimeMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
