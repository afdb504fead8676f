// Package metrics exposes scoring and reload counters in Prometheus
// format. Each Recorder owns its registry so that tests and multiple
// servers in one process do not collide on the global one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskcard"

// Reload outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeReadFail = "read_error"
)

// Recorder collects service metrics.
type Recorder struct {
	reg         *prometheus.Registry
	evaluations *prometheus.CounterVec
	evalErrors  *prometheus.CounterVec
	reloads     *prometheus.CounterVec
	version     prometheus.Gauge
	duration    prometheus.Histogram
}

// New returns a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Change requests scored, by resulting band.",
		}, []string{"band"}),
		evalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_errors_total",
			Help:      "Change requests rejected, by error kind.",
		}, []string{"kind"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reloads_total",
			Help:      "Scorecard reload attempts, by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scorecard_version",
			Help:      "Version of the active scorecard, 0 when unconfigured.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent scoring one change request.",
			Buckets:   prometheus.ExponentialBuckets(0.000005, 4, 8),
		}),
	}
	r.reg.MustRegister(
		r.evaluations, r.evalErrors, r.reloads, r.version, r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveEvaluation records a successful score.
func (r *Recorder) ObserveEvaluation(band string, took time.Duration) {
	r.evaluations.WithLabelValues(band).Inc()
	r.duration.Observe(took.Seconds())
}

// ObserveEvaluationError records a rejected request.
func (r *Recorder) ObserveEvaluationError(kind string) {
	r.evalErrors.WithLabelValues(kind).Inc()
}

// ObserveReload records a reload attempt.
func (r *Recorder) ObserveReload(trigger, outcome string) {
	r.reloads.WithLabelValues(trigger, outcome).Inc()
}

// SetVersion records the active scorecard version.
func (r *Recorder) SetVersion(v int) {
	r.version.Set(float64(v))
}

// Handler serves the registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }
