package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveGeneration("success", 1.5)
	m.ObserveGeneration("success", 0.7)
	m.ObserveGeneration("transport_error", 0.1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("transport_error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.GenerationSeconds))
}

func TestObserveStage(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveStage("uploading")
	m.ObserveStage("uploading")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageTransitions.WithLabelValues("uploading")))
}

func TestNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("idle")
		m.ObserveGeneration("success", 1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.CommitsTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "minutes_commits_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
