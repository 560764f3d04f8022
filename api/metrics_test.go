package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector_Events(t *testing.T) {
	mc := NewMetricsCollector(10)
	defer mc.Stop()

	mc.EventReceived("send_message")
	mc.EventReceived("send_message")
	mc.EventRejected("send_message")
	mc.EventFannedOut("new_message", 2, 1)
	mc.EventFannedOut("new_message", 0, 0)

	assert.Eventually(t, func() bool {
		return mc.GetEventMetrics()["new_message"].FannedOut == 2
	}, time.Second, 5*time.Millisecond)

	events := mc.GetEventMetrics()
	assert.Equal(t, EventMetrics{Received: 2, Rejected: 1}, events["send_message"])
	assert.Equal(t, EventMetrics{FannedOut: 2, Dropped: 1}, events["new_message"])

	summary := mc.GetSummary()
	assert.Equal(t, int64(2), summary["eventsReceived"])
	assert.Equal(t, int64(1), summary["eventsDropped"])
}

func TestMetricsCollector_Traces(t *testing.T) {
	mc := NewMetricsCollector(3)
	defer mc.Stop()

	start := time.Now()
	for i, d := range []time.Duration{10, 30, 20, 40} {
		status := 200
		if i == 3 {
			status = 404
		}
		mc.RecordTrace(RequestTrace{
			Method:        "GET",
			Path:          "/api/chat/rooms/u1",
			Route:         "/api/chat/rooms/{userId}",
			Status:        status,
			StartTime:     start,
			TotalDuration: d * time.Millisecond,
		})
	}
	mc.RecordTrace(RequestTrace{Method: "GET", Route: "/api/chat/active-users", TotalDuration: time.Millisecond})

	assert.Eventually(t, func() bool {
		return mc.GetSummary()["totalRequests"] == int64(5)
	}, time.Second, 5*time.Millisecond)

	routes := mc.GetRouteMetrics()
	rooms := routes["GET /api/chat/rooms/{userId}"]
	assert.Equal(t, int64(4), rooms.Count)
	assert.Equal(t, int64(1), rooms.ErrorCount)
	assert.Equal(t, 10*time.Millisecond, rooms.MinTime)
	assert.Equal(t, 40*time.Millisecond, rooms.MaxTime)
	assert.Equal(t, 25*time.Millisecond, rooms.AvgTime)

	assert.Len(t, mc.GetTraces(0), 3)
	assert.Len(t, mc.GetTraces(2), 2)

	slowest := mc.GetSlowestRoutes(1)
	if assert.Len(t, slowest, 1) {
		assert.Equal(t, "/api/chat/rooms/{userId}", slowest[0].Path)
	}
}

func TestMetricsCollector_StopIsIdempotent(t *testing.T) {
	mc := NewMetricsCollector(1)
	mc.Stop()
	mc.Stop()
	mc.EventReceived("join_chat")
}
