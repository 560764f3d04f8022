package api

import (
	"sort"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID     string        `json:"requestId"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Route         string        `json:"route"`
	Status        int           `json:"status"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       time.Time     `json:"endTime"`
	TotalDuration time.Duration `json:"totalDuration"`
	Error         string        `json:"error,omitempty"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	P50Time     time.Duration `json:"p50Time"`
	P95Time     time.Duration `json:"p95Time"`
	P99Time     time.Duration `json:"p99Time"`
	LastRequest time.Time     `json:"lastRequest"`
}

// EventMetrics counts one relay event name
type EventMetrics struct {
	Received  int64 `json:"received"`
	Rejected  int64 `json:"rejected"`
	FannedOut int64 `json:"fannedOut"`
	Dropped   int64 `json:"dropped"`
}

type eventSample struct {
	event     string
	received  int64
	rejected  int64
	delivered int64
	dropped   int64
}

// MetricsCollector collects request traces and relay event counters.
// Recording never blocks: samples are queued on a buffered channel and dropped
// when it is full.
type MetricsCollector struct {
	mu            sync.RWMutex
	traces        []RequestTrace
	maxTraces     int
	routeMetrics  map[string]*RouteMetrics
	eventMetrics  map[string]*EventMetrics
	windowStart   time.Time
	totalRequests int64
	totalErrors   int64
	droppedSample int64
	traceChan     chan RequestTrace
	eventChan     chan eventSample
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewMetricsCollector starts a collector keeping up to maxTraces recent traces
func NewMetricsCollector(maxTraces int) *MetricsCollector {
	if maxTraces <= 0 {
		maxTraces = 1000
	}
	mc := &MetricsCollector{
		traces:       make([]RequestTrace, 0, maxTraces),
		maxTraces:    maxTraces,
		routeMetrics: make(map[string]*RouteMetrics),
		eventMetrics: make(map[string]*EventMetrics),
		windowStart:  time.Now(),
		traceChan:    make(chan RequestTrace, 1000),
		eventChan:    make(chan eventSample, 4096),
		stopChan:     make(chan struct{}),
	}
	go mc.process()
	return mc
}

// Stop ends the background processor. Samples recorded afterwards are dropped.
func (mc *MetricsCollector) Stop() {
	mc.stopOnce.Do(func() { close(mc.stopChan) })
}

// RecordTrace queues a request trace, dropping it if the queue is full
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
		mc.countDropped()
	}
}

// EventReceived counts an inbound event
func (mc *MetricsCollector) EventReceived(event string) {
	mc.recordEvent(eventSample{event: event, received: 1})
}

// EventRejected counts an inbound event refused by validation or membership
func (mc *MetricsCollector) EventRejected(event string) {
	mc.recordEvent(eventSample{event: event, rejected: 1})
}

// EventFannedOut counts the outcome of queueing one outbound event
func (mc *MetricsCollector) EventFannedOut(event string, delivered, dropped int) {
	if delivered == 0 && dropped == 0 {
		return
	}
	mc.recordEvent(eventSample{event: event, delivered: int64(delivered), dropped: int64(dropped)})
}

func (mc *MetricsCollector) recordEvent(s eventSample) {
	select {
	case mc.eventChan <- s:
	default:
		mc.countDropped()
	}
}

func (mc *MetricsCollector) countDropped() {
	mc.mu.Lock()
	mc.droppedSample++
	mc.mu.Unlock()
}

func (mc *MetricsCollector) process() {
	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case s := <-mc.eventChan:
			mc.processEvent(s)
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *MetricsCollector) processEvent(s eventSample) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	m, ok := mc.eventMetrics[s.event]
	if !ok {
		m = &EventMetrics{}
		mc.eventMetrics[s.event] = m
	}
	m.Received += s.received
	m.Rejected += s.rejected
	m.FannedOut += s.delivered
	m.Dropped += s.dropped
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	routeKey := trace.Method + " " + trace.Route
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  trace.Method,
			Path:    trace.Route,
			MinTime: trace.TotalDuration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	if trace.TotalDuration < metrics.MinTime {
		metrics.MinTime = trace.TotalDuration
	}
	if trace.TotalDuration > metrics.MaxTime {
		metrics.MaxTime = trace.TotalDuration
	}
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	mc.totalRequests++

	mc.calculatePercentiles(routeKey, metrics)
}

// calculatePercentiles recomputes P50, P95 and P99 from the retained traces
func (mc *MetricsCollector) calculatePercentiles(routeKey string, metrics *RouteMetrics) {
	var durations []time.Duration
	for _, trace := range mc.traces {
		if trace.Method+" "+trace.Route == routeKey {
			durations = append(durations, trace.TotalDuration)
		}
	}
	if len(durations) == 0 {
		return
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	pick := func(p float64) time.Duration {
		idx := int(float64(len(durations)) * p)
		if idx >= len(durations) {
			idx = len(durations) - 1
		}
		return durations[idx]
	}
	metrics.P50Time = pick(0.50)
	metrics.P95Time = pick(0.95)
	metrics.P99Time = pick(0.99)
}

// GetTraces returns up to limit of the most recent traces, oldest first
func (mc *MetricsCollector) GetTraces(limit int) []RequestTrace {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	start := len(mc.traces) - limit
	if limit <= 0 || start < 0 {
		start = 0
	}
	return append([]RequestTrace{}, mc.traces[start:]...)
}

// GetRouteMetrics returns a copy of the aggregated metrics of every route
func (mc *MetricsCollector) GetRouteMetrics() map[string]RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]RouteMetrics, len(mc.routeMetrics))
	for k, v := range mc.routeMetrics {
		result[k] = *v
	}
	return result
}

// GetEventMetrics returns a copy of the per event counters
func (mc *MetricsCollector) GetEventMetrics() map[string]EventMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]EventMetrics, len(mc.eventMetrics))
	for k, v := range mc.eventMetrics {
		result[k] = *v
	}
	return result
}

// GetSlowestRoutes returns up to limit routes by descending average time
func (mc *MetricsCollector) GetSlowestRoutes(limit int) []RouteMetrics {
	mc.mu.RLock()
	routes := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, m := range mc.routeMetrics {
		routes = append(routes, *m)
	}
	mc.mu.RUnlock()

	sort.Slice(routes, func(i, j int) bool { return routes[i].AvgTime > routes[j].AvgTime })
	if limit > 0 && len(routes) > limit {
		routes = routes[:limit]
	}
	return routes
}

// GetSummary returns overall summary metrics
func (mc *MetricsCollector) GetSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	elapsed := time.Since(mc.windowStart)
	var rps float64
	if elapsed.Seconds() > 0 {
		rps = float64(mc.totalRequests) / elapsed.Seconds()
	}
	var errorRate float64
	if mc.totalRequests > 0 {
		errorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}

	var received, rejected, fannedOut, dropped int64
	for _, m := range mc.eventMetrics {
		received += m.Received
		rejected += m.Rejected
		fannedOut += m.FannedOut
		dropped += m.Dropped
	}

	return map[string]interface{}{
		"totalRequests":   mc.totalRequests,
		"totalErrors":     mc.totalErrors,
		"errorRate":       errorRate,
		"rps":             rps,
		"windowStart":     mc.windowStart,
		"routeCount":      len(mc.routeMetrics),
		"traceCount":      len(mc.traces),
		"eventsReceived":  received,
		"eventsRejected":  rejected,
		"eventsFannedOut": fannedOut,
		"eventsDropped":   dropped,
		"droppedSamples":  mc.droppedSample,
	}
}
