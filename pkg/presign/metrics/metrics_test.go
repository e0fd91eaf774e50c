package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := New()

	m.RecordRequest(http.MethodGet, "/presigned-url", http.StatusOK, 5*time.Millisecond, 120)
	m.RecordRequest(http.MethodGet, "/presigned-url", http.StatusOK, 7*time.Millisecond, 120)
	m.RecordRequest(http.MethodGet, "/presigned-url", http.StatusBadRequest, time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("200", "GET", "/presigned-url")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("400", "GET", "/presigned-url")))
}

func TestMetrics_InflightAndIssued(t *testing.T) {
	m := New()

	m.InflightAdd(1)
	m.InflightAdd(1)
	m.InflightAdd(-1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inflight))

	m.RecordIssued(http.MethodGet)
	m.RecordIssued(http.MethodPut)
	m.RecordIssued(http.MethodPut)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issued.WithLabelValues("GET")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.issued.WithLabelValues("PUT")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordIssued(http.MethodGet)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `presign_urls_issued_total{method="GET"} 1`)
	assert.Contains(t, rr.Body.String(), "presign_http_inflight_requests 0")
}
