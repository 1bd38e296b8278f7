package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/itemsvc/internal/item"
	"github.com/vyrodovalexey/itemsvc/internal/observability"
	"github.com/vyrodovalexey/itemsvc/internal/observability/metrics"
)

func requestCounterTotal(t *testing.T, m *metrics.HTTPMetrics) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestServer_RequestCounter(t *testing.T) {
	t.Parallel()

	m := metrics.NewHTTPMetrics()
	srv := New(DefaultConfig(), &fakeRepo{
		getFn: func(_ context.Context, id int64) (*item.Item, error) {
			return &item.Item{ID: id, Name: "hammer", Description: "a small hammer"}, nil
		},
	}, m, nil, observability.NopLogger())

	assert.Equal(t, 0.0, requestCounterTotal(t, m))

	rec := doRequest(srv, http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, requestCounterTotal(t, m), "counter increases by exactly one per completed request")

	rec = doRequest(srv, http.MethodGet, "/items/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, requestCounterTotal(t, m))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := metrics.NewHTTPMetrics()
	srv := New(DefaultConfig(), &fakeRepo{
		getFn: func(_ context.Context, id int64) (*item.Item, error) {
			return &item.Item{ID: id}, nil
		},
	}, m, nil, observability.NopLogger())

	rec := doRequest(srv, http.MethodGet, "/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "http_request_duration_seconds")
	assert.Contains(t, rec.Body.String(), "in_progress_requests")
}

func TestServer_HealthEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("healthz is always ok", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(&fakeRepo{})
		rec := doRequest(srv, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reflects database reachability", func(t *testing.T) {
		t.Parallel()

		srv := New(DefaultConfig(), &fakeRepo{}, nil, pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		}), observability.NopLogger())

		rec := doRequest(srv, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		srv = New(DefaultConfig(), &fakeRepo{}, nil, pingerFunc(func(context.Context) error {
			return nil
		}), observability.NopLogger())

		rec = doRequest(srv, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeRepo{
		getFn: func(_ context.Context, id int64) (*item.Item, error) {
			return &item.Item{ID: id}, nil
		},
	})

	rec := doRequest(srv, http.MethodGet, "/items/1", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_StopWithoutStart(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeRepo{})
	assert.NoError(t, srv.Stop(context.Background()))
}
