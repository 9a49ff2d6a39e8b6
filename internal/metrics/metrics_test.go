package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRouterServesMetricsAndHealth(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "narrator_test_gauge", Help: "test"})
	reg.MustRegister(gauge)
	gauge.Set(42)

	handler, err := Router(reg)
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	require.Contains(t, string(body), "narrator_test_gauge 42")
	require.Contains(t, string(body), `narrator_http_requests_total{code="200",route="/healthz"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}

func TestRouterRejectsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := Router(reg)
	require.NoError(t, err)
	_, err = Router(reg)
	require.ErrorContains(t, err, "register http collector")
}

func TestServerLifecycle(t *testing.T) {
	t.Parallel()

	srv, err := NewServer("127.0.0.1:0", prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	require.NoError(t, srv.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	var nilServer *Server
	require.NoError(t, nilServer.Shutdown(ctx))
}
