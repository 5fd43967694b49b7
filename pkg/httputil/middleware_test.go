package httputil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressleaf/pressleaf/pkg/observability"
)

func TestLoggingMiddleware_InstallsRequestLogger(t *testing.T) {
	fallback := observability.NewLogger(observability.ErrorLevel, io.Discard)

	var seen *observability.Logger
	h := Chain(
		RequestIDMiddleware,
		LoggingMiddleware(fallback),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestLogger(r, fallback)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	require.NotNil(t, seen)
	// Handlers get the request-scoped logger (tagged with the request id),
	// not the bare fallback.
	assert.NotSame(t, fallback, seen)
}

func TestRequestLogger_FallbackOutsideStack(t *testing.T) {
	fallback := observability.NewLogger(observability.ErrorLevel, io.Discard)
	req := httptest.NewRequest("GET", "/test", nil)

	assert.Same(t, fallback, RequestLogger(req, fallback))
}

func TestMetricsMiddleware_RecordsRequests(t *testing.T) {
	m := observability.NewMetrics()

	h := MetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetricsMiddleware_DefaultsToOK(t *testing.T) {
	m := observability.NewMetrics()

	h := MetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hi"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ok", "200")))
}
