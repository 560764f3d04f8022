package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector_Middleware(t *testing.T) {
	mc := NewMetricsCollector(10)
	defer mc.Stop()

	r := mux.NewRouter()
	r.Use(mc.Middleware)
	r.HandleFunc("/api/chat/rooms/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc(MetricsPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/missing-user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, target := range []string{"/api/chat/rooms/u1", "/api/chat/rooms/a1", MetricsPath, "/missing-user"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Eventually(t, func() bool {
		return mc.GetSummary()["totalRequests"] == int64(3)
	}, time.Second, 5*time.Millisecond)

	routes := mc.GetRouteMetrics()
	assert.Equal(t, int64(2), routes["GET /api/chat/rooms/{userId}"].Count)
	assert.Equal(t, int64(1), routes["GET /missing-user"].ErrorCount)
	_, traced := routes["GET "+MetricsPath]
	assert.False(t, traced)

	traces := mc.GetTraces(0)
	assert.NotEmpty(t, traces[0].RequestID)
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
	assert.False(t, rw.hijacked)
}
