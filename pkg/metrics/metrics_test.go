package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m := New(nil)
	m.ReportsGenerated.WithLabelValues("month").Inc()
	m.FetchFailures.WithLabelValues("licensing").Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportsGenerated.WithLabelValues("month")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `queue_atlas_reports_generated_total{period="month"} 1`)
	assert.Contains(t, string(body), `queue_atlas_fetch_failures_total{department="licensing"} 2`)
}

func TestNewUsesSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}
