package roundmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RoundMetrics records round service operations.
type RoundMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordCascadeDelete(ctx context.Context, deleted bool)
}

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cascades  *prometheus.CounterVec
}

// NewPrometheus registers round metrics on reg.
func NewPrometheus(reg prometheus.Registerer) RoundMetrics {
	labels := []string{"operation", "service"}
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "round",
			Name:      "operation_attempts_total",
			Help:      "Round operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "round",
			Name:      "operation_success_total",
			Help:      "Round operations that completed without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "round",
			Name:      "operation_failures_total",
			Help:      "Round operations that returned an error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "golf",
			Subsystem: "round",
			Name:      "operation_duration_seconds",
			Help:      "Round operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
		cascades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "round",
			Name:      "descriptor_cascade_total",
			Help:      "Round descriptor cascade checks after a permanent delete, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration, m.cascades)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordCascadeDelete(_ context.Context, deleted bool) {
	outcome := "kept"
	if deleted {
		outcome = "deleted"
	}
	m.cascades.WithLabelValues(outcome).Inc()
}

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() RoundMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                {}
func (noop) RecordOperationSuccess(context.Context, string, string)                {}
func (noop) RecordOperationFailure(context.Context, string, string)                {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordCascadeDelete(context.Context, bool)                              {}
