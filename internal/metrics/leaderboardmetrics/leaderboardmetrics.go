package leaderboardmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeaderboardMetrics records leaderboard recomputation.
type LeaderboardMetrics interface {
	RecordRecompute(ctx context.Context, trigger string, duration time.Duration)
	RecordStaleDiscard(ctx context.Context)
	RecordPublishSkipped(ctx context.Context)
	WatcherStarted(ctx context.Context)
	WatcherStopped(ctx context.Context)
}

type prometheusMetrics struct {
	recomputes *prometheus.CounterVec
	duration   prometheus.Histogram
	stale      prometheus.Counter
	skipped    prometheus.Counter
	watchers   prometheus.Gauge
}

// NewPrometheus registers leaderboard metrics on reg.
func NewPrometheus(reg prometheus.Registerer) LeaderboardMetrics {
	m := &prometheusMetrics{
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "leaderboard",
			Name:      "recomputes_total",
			Help:      "Full leaderboard rebuilds, by trigger.",
		}, []string{"trigger"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "golf",
			Subsystem: "leaderboard",
			Name:      "recompute_duration_seconds",
			Help:      "Time to load snapshots and rebuild a board.",
			Buckets:   prometheus.DefBuckets,
		}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "leaderboard",
			Name:      "stale_discards_total",
			Help:      "Rebuilds dropped because the watcher was cancelled first.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "golf",
			Subsystem: "leaderboard",
			Name:      "publish_skipped_total",
			Help:      "Rebuilds not published because the board was unchanged.",
		}),
		watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "golf",
			Subsystem: "leaderboard",
			Name:      "watchers",
			Help:      "Live leaderboard subscriptions.",
		}),
	}
	reg.MustRegister(m.recomputes, m.duration, m.stale, m.skipped, m.watchers)
	return m
}

func (m *prometheusMetrics) RecordRecompute(_ context.Context, trigger string, duration time.Duration) {
	m.recomputes.WithLabelValues(trigger).Inc()
	m.duration.Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordStaleDiscard(context.Context)   { m.stale.Inc() }
func (m *prometheusMetrics) RecordPublishSkipped(context.Context) { m.skipped.Inc() }
func (m *prometheusMetrics) WatcherStarted(context.Context)       { m.watchers.Inc() }
func (m *prometheusMetrics) WatcherStopped(context.Context)       { m.watchers.Dec() }

type noop struct{}

// NewNoop returns metrics that discard everything.
func NewNoop() LeaderboardMetrics { return noop{} }

func (noop) RecordRecompute(context.Context, string, time.Duration) {}
func (noop) RecordStaleDiscard(context.Context)                     {}
func (noop) RecordPublishSkipped(context.Context)                   {}
func (noop) WatcherStarted(context.Context)                         {}
func (noop) WatcherStopped(context.Context)                         {}
