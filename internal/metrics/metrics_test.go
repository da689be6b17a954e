package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveEvaluation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEvaluation("Good", "anthropic", false, 1000, 500, 0.0105, 2*time.Second)
	m.ObserveEvaluation("Satisfactory", "anthropic", true, 0, 0, 0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("Good")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("anthropic")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.Tokens.WithLabelValues("input")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.Tokens.WithLabelValues("output")))
	assert.InDelta(t, 0.0105, testutil.ToFloat64(m.CostUSD), 1e-12)
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.ObserveRequest("GET", "/api/stats", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `presentation_evaluator_http_requests_total{method="GET",route="/api/stats",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
