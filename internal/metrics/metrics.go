// Package metrics exposes Prometheus instrumentation for analysis runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors the service emits. One instance per
// process, registered on its own registry so tests never collide.
type Registry struct {
	reg *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	fetchErrors     *prometheus.CounterVec
	recommendations *prometheus.CounterVec
	appliesTotal    *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adscope",
		Name:      "analysis_runs_total",
		Help:      "Analysis runs by platform and outcome.",
	}, []string{"platform", "status"})

	r.fetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adscope",
		Name:      "fetch_errors_total",
		Help:      "Platform API fetch failures by platform and report.",
	}, []string{"platform", "report"})

	r.recommendations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adscope",
		Name:      "recommendations_total",
		Help:      "Recommendations produced by platform and priority.",
	}, []string{"platform", "priority"})

	r.appliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adscope",
		Name:      "applies_total",
		Help:      "Apply attempts by platform and status.",
	}, []string{"platform", "status"})

	r.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "adscope",
		Name:      "analysis_run_duration_seconds",
		Help:      "Wall time of a full fetch-analyze-recommend run.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"platform"})

	r.reg.MustRegister(r.runsTotal, r.fetchErrors, r.recommendations, r.appliesTotal, r.runDuration)
	return r
}

func (r *Registry) RunStarted(platform string) func(status string) {
	start := time.Now()
	return func(status string) {
		r.runsTotal.WithLabelValues(platform, status).Inc()
		r.runDuration.WithLabelValues(platform).Observe(time.Since(start).Seconds())
	}
}

func (r *Registry) FetchError(platform, report string) {
	r.fetchErrors.WithLabelValues(platform, report).Inc()
}

func (r *Registry) RecommendationsProduced(platform string, byPriority map[string]int) {
	for priority, n := range byPriority {
		r.recommendations.WithLabelValues(platform, priority).Add(float64(n))
	}
}

func (r *Registry) ApplyResult(platform, status string) {
	r.appliesTotal.WithLabelValues(platform, status).Inc()
}

// Handler serves the Prometheus exposition endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
