package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	loadsTotal       *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	validationsTotal *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	sessions         prometheus.Gauge
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		loadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eigenflow_source_loads_total",
				Help: "Data file loads by source and outcome (ok, empty, failed)",
			},
			[]string{"source", "status"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eigenflow_source_cache_lookups_total",
				Help: "Source cache lookups by source and result",
			},
			[]string{"source", "result"},
		),
		validationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eigenflow_access_validations_total",
				Help: "Access key validations by outcome",
			},
			[]string{"outcome"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eigenflow_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "eigenflow_sessions",
			Help: "Sessions currently held in memory",
		}),
	}
}

// RecordLoad records one loader outcome.
func (r *Recorder) RecordLoad(source, status string) {
	r.loadsTotal.WithLabelValues(source, status).Inc()
}

// RecordCache records a cache hit or miss for a source.
func (r *Recorder) RecordCache(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(source, result).Inc()
}

// RecordValidation records an access validation outcome (valid, invalid, expired, throttled).
func (r *Recorder) RecordValidation(outcome string) {
	r.validationsTotal.WithLabelValues(outcome).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// SetSessions reports the current session count.
func (r *Recorder) SetSessions(n int) {
	r.sessions.Set(float64(n))
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordLoad(string, string)     {}
func (Nop) RecordCache(string, bool)      {}
func (Nop) RecordValidation(string)       {}
func (Nop) RecordLatency(string, float64) {}
func (Nop) SetSessions(int)               {}
