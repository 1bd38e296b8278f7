package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, m *HTTPMetrics, name string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func gaugeValue(t *testing.T, m *HTTPMetrics, name string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestHTTPMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics()

	m.RecordRequest(http.MethodGet, "/items/:item_id", "200", 0.05)
	assert.Equal(t, 1.0, counterValue(t, m, "http_requests_total"))

	m.RecordRequest(http.MethodPost, "/items/", "200", 0.1)
	m.RecordRequest(http.MethodGet, "/items/:item_id", "404", 0.01)
	assert.Equal(t, 3.0, counterValue(t, m, "http_requests_total"))
}

func TestHTTPMetrics_InProgress(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics()

	m.IncInProgress()
	m.IncInProgress()
	assert.Equal(t, 2.0, gaugeValue(t, m, "in_progress_requests"))

	m.DecInProgress()
	assert.Equal(t, 1.0, gaugeValue(t, m, "in_progress_requests"))
}

func TestHTTPMetrics_SeparateRegistries(t *testing.T) {
	t.Parallel()

	a := NewHTTPMetrics()
	b := NewHTTPMetrics()

	a.RecordRequest(http.MethodGet, "/items/:item_id", "200", 0.01)

	assert.Equal(t, 1.0, counterValue(t, a, "http_requests_total"))
	assert.Equal(t, 0.0, counterValue(t, b, "http_requests_total"))
}

func TestHTTPMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewHTTPMetrics()
	m.RecordRequest(http.MethodGet, "/items/:item_id", "200", 0.01)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
	assert.Contains(t, rec.Body.String(), "in_progress_requests")
}
