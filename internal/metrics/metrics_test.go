package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryCounters(t *testing.T) {
	r := NewRegistry()

	done := r.RunStarted("facebook")
	r.FetchError("facebook", "adsets")
	r.RecommendationsProduced("facebook", map[string]int{"high": 3, "medium": 2})
	r.ApplyResult("facebook", "applied")
	r.ApplyResult("facebook", "failed")
	done("ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("facebook", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchErrors.WithLabelValues("facebook", "adsets")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.recommendations.WithLabelValues("facebook", "high")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.recommendations.WithLabelValues("facebook", "medium")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.appliesTotal.WithLabelValues("facebook", "applied"))+
		testutil.ToFloat64(r.appliesTotal.WithLabelValues("facebook", "failed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RunStarted("google")("ok")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "adscope_analysis_runs_total")
}
