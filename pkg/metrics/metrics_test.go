package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/jsi-server/pkg/metrics"
)

func TestManager_Observe(t *testing.T) {
	m := metrics.NewManager()

	m.ObserveScore("high")
	m.ObserveScore("high")
	m.ObserveScore("low")
	m.ObserveAlert("failed")
	m.ObserveAnomaly("rapid_drop")
	m.ObserveRPC("/jsi.v1.Insights/GetTrend", "OK", 20*time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "jsi_scores_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per risk level")

	count, err = testutil.GatherAndCount(m.Registry(), "jsi_grpc_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestManager_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewManager(metrics.WithRegistry(registry), metrics.WithNamespace("test"))
	m.ObserveAlert("sent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `test_alerts_total{result="sent"} 1`)
}

func TestManager_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewManager()
		metrics.NewManager()
	})
}
