// Package metrics holds the Prometheus collectors of the evaluator service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "presentation_evaluator"

type Metrics struct {
	Evaluations        *prometheus.CounterVec
	Fallbacks          *prometheus.CounterVec
	Tokens             *prometheus.CounterVec
	CostUSD            prometheus.Counter
	EvaluationDuration prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Stored evaluations by score category.",
		}, []string{"category"}),
		Fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_fallbacks_total",
			Help:      "Evaluations that used fallback scores, by judge provider.",
		}, []string{"provider"}),
		Tokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by the judge model.",
		}, []string{"direction"}),
		CostUSD: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cost_usd_total",
			Help:      "Estimated judge spend in USD.",
		}),
		EvaluationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of the evaluation pipeline.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *Metrics) ObserveEvaluation(category, provider string, fallback bool, inputTokens, outputTokens int64, costUSD float64, elapsed time.Duration) {
	m.Evaluations.WithLabelValues(category).Inc()
	if fallback {
		m.Fallbacks.WithLabelValues(provider).Inc()
	}
	m.Tokens.WithLabelValues("input").Add(float64(inputTokens))
	m.Tokens.WithLabelValues("output").Add(float64(outputTokens))
	m.CostUSD.Add(costUSD)
	m.EvaluationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
