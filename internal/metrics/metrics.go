// Package metrics exports engine activity as Prometheus series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// #region recorder
// Recorder implements phi.Observer on top of a Prometheus registerer.
type Recorder struct {
	queries    *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	value      *prometheus.HistogramVec
	partitions *prometheus.CounterVec
	cache      *prometheus.CounterVec
}

var _ phi.Observer = (*Recorder)(nil)

// NewRecorder registers the engine series with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phi_queries_total",
			Help: "Φ queries by method and outcome",
		}, []string{"method", "outcome"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phi_query_errors_total",
			Help: "Failed Φ queries by error kind and class",
		}, []string{"kind", "class"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phi_query_duration_seconds",
			Help:    "Wall time of Φ queries",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"method"}),
		value: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phi_value",
			Help:    "Distribution of returned Φ values",
			Buckets: []float64{0, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"method"}),
		partitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phi_partitions_evaluated_total",
			Help: "Partitions scored during MIP search",
		}, []string{"method"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "phi_repertoire_cache_lookups_total",
			Help: "Repertoire cache lookups by result",
		}, []string{"result"}),
	}
}

// PartitionEvaluated counts one scored partition.
func (r *Recorder) PartitionEvaluated(method phi.Method) {
	r.partitions.WithLabelValues(string(method)).Inc()
}

// QueryFinished records the outcome, duration and value of one query.
func (r *Recorder) QueryFinished(method phi.Method, value float64, elapsed time.Duration, err error) {
	m := string(method)
	r.duration.WithLabelValues(m).Observe(elapsed.Seconds())
	if err != nil {
		kind := phierr.KindOf(err)
		class := kind.Class()
		if kind == "" {
			kind, class = "internal", "internal"
		}
		r.queries.WithLabelValues(m, "error").Inc()
		r.errors.WithLabelValues(string(kind), string(class)).Inc()
		return
	}
	r.queries.WithLabelValues(m, "ok").Inc()
	r.value.WithLabelValues(m).Observe(value)
}

// CacheLookup counts a repertoire cache hit or miss.
func (r *Recorder) CacheLookup(hit bool) {
	if hit {
		r.cache.WithLabelValues("hit").Inc()
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}

// #endregion recorder
