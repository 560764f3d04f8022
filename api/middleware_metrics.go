package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// MetricsPath is the route serving the collector's own data, it is not traced
const MetricsPath = "/api/chat/metrics"

// slowRequest is the threshold above which a non-upgraded request is logged
const slowRequest = time.Second

// Middleware tracks request timing. Routes are grouped by their mux template so
// /api/chat/rooms/{userId} is one route whatever the identity.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == MetricsPath || path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		trace := RequestTrace{
			RequestID: uuid.New().String(),
			Method:    r.Method,
			Path:      path,
			Route:     routeTemplate(r),
			StartTime: startTime,
		}

		wrappedWriter := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(wrappedWriter, r)

		trace.EndTime = time.Now()
		trace.TotalDuration = trace.EndTime.Sub(startTime)
		trace.Status = wrappedWriter.statusCode
		if trace.Status >= 400 {
			trace.Error = http.StatusText(trace.Status)
		}
		mc.RecordTrace(trace)

		// an upgraded request lasts as long as its connection
		if !wrappedWriter.hijacked && trace.TotalDuration > slowRequest {
			zap.S().Warnw("Slow request detected",
				"requestId", trace.RequestID,
				"method", trace.Method,
				"path", trace.Path,
				"duration", trace.TotalDuration,
				"status", trace.Status,
			)
		}
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return r.URL.Path
}

// responseWriter wraps http.ResponseWriter to capture status code
// It implements http.Hijacker to support WebSocket upgrades
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	hijacked   bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker to support WebSocket upgrades
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
	}
	conn, buf, err := hijacker.Hijack()
	if err == nil {
		rw.hijacked = true
		rw.statusCode = http.StatusSwitchingProtocols
	}
	return conn, buf, err
}
