package metrics

import (
	coremetrics "github.com/clubops/planner/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records commit and conflict events in Prometheus metrics.
type PromSink struct {
	commits   *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	items     *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
}

// NewPromSink registers the engine metrics on the default Prometheus
// registerer. The metrics endpoint should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_commits_total",
		Help: "Total number of committed drafts",
	}, []string{"tenant"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_conflicts_total",
		Help: "Total number of commits rejected by the availability check",
	}, []string{"tenant"})
	items := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_auto_budget_items",
		Help: "Auto-generated budget items emitted by the last commit per event",
	}, []string{"tenant", "event_id"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_commit_duration_seconds",
		Help:    "Time spent in the three-stage commit pipeline",
		Buckets: prometheus.DefBuckets,
	}, []string{"tenant"})

	for _, c := range []prometheus.Collector{commits, conflicts, items, duration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return &PromSink{commits: commits, conflicts: conflicts, items: items, duration: duration}, nil
}

// RecordCommit increments the commit counters and observes the pipeline
// duration.
func (s *PromSink) RecordCommit(rec coremetrics.CommitRecord) error {
	s.commits.WithLabelValues(rec.Tenant).Inc()
	s.items.WithLabelValues(rec.Tenant, rec.EventID).Set(float64(rec.AutoItems))
	s.duration.WithLabelValues(rec.Tenant).Observe(rec.Duration.Seconds())
	return nil
}

// RecordConflict increments the conflict counter.
func (s *PromSink) RecordConflict(rec coremetrics.ConflictRecord) error {
	s.conflicts.WithLabelValues(rec.Tenant).Inc()
	return nil
}
