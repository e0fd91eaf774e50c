package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestIDMiddleware(handler)

	t.Run("generates request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		customID := "my-custom-id"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", customID)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, customID, rr.Header().Get("X-Request-ID"))
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("Hello"))
	})

	wrapped := LoggingMiddleware(logger)(handler)

	req := httptest.NewRequest("GET", "/presigned-url?key=secret-key", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "Hello", rr.Body.String())

	line := buf.String()
	assert.Contains(t, line, "status=418")
	assert.Contains(t, line, "path=/presigned-url")
	assert.Contains(t, line, "bytes=5")
	assert.NotContains(t, line, "secret-key")
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	var buf bytes.Buffer
	wrapped := RecoveryMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		wrapped.ServeHTTP(rr, req)
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Contains(t, buf.String(), "something went wrong")
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusBadRequest)
	})

	wrapped := CORSMiddleware(handler)

	t.Run("error response keeps headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("OPTIONS", "/test", nil)
		rr := httptest.NewRecorder()

		wrapped.ServeHTTP(rr, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

type recordingCollector struct {
	inflight int
	peak     int
	method   string
	path     string
	status   int
	size     int64
}

func (c *recordingCollector) InflightAdd(delta int) {
	c.inflight += delta
	if c.inflight > c.peak {
		c.peak = c.inflight
	}
}

func (c *recordingCollector) RecordRequest(method, path string, statusCode int, duration time.Duration, size int64) {
	c.method = method
	c.path = path
	c.status = statusCode
	c.size = size
}

func TestMetricsMiddleware(t *testing.T) {
	collector := &recordingCollector{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	})

	wrapped := MetricsMiddleware(collector)(handler)

	req := httptest.NewRequest("PUT", "/anything", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	assert.Equal(t, 0, collector.inflight)
	assert.Equal(t, 1, collector.peak)
	assert.Equal(t, "PUT", collector.method)
	assert.Equal(t, "unmatched", collector.path)
	assert.Equal(t, http.StatusCreated, collector.status)
	assert.Equal(t, int64(7), collector.size)
}
