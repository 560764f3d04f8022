package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/relief-chat-api/models"
)

// RecordingConn is an in memory models.Connection that keeps every queued event
type RecordingConn struct {
	id     string
	mu     sync.Mutex
	events []models.Envelope
	full   bool
	closed bool
}

// NewRecordingConn returns an empty connection with the given id
func NewRecordingConn(id string) *RecordingConn {
	return &RecordingConn{id: id}
}

// ID implements models.Connection
func (c *RecordingConn) ID() string { return c.id }

// Send implements models.Connection, refusing events while full or closed
func (c *RecordingConn) Send(e models.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full || c.closed {
		return false
	}
	c.events = append(c.events, e)
	return true
}

// Close marks the connection closed
func (c *RecordingConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// SetFull makes Send behave like a connection whose queue is full
func (c *RecordingConn) SetFull(full bool) {
	c.mu.Lock()
	c.full = full
	c.mu.Unlock()
}

// Closed reports whether Close was called
func (c *RecordingConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// All returns every recorded event in order
func (c *RecordingConn) All() []models.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Envelope(nil), c.events...)
}

// Named returns the recorded events with the given name, in order
func (c *RecordingConn) Named(event string) []models.Envelope {
	var out []models.Envelope
	for _, e := range c.All() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// Frame is an outbound event as read off the wire
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Dial opens a relay websocket on an httptest server URL as identity and role
func Dial(t *testing.T, serverURL, identity, role string) *websocket.Conn {
	t.Helper()
	conn, resp, err := DialRaw(serverURL, identity, role)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// DialRaw dials without asserting, for handshake failure tests
func DialRaw(serverURL, identity, role string) (*websocket.Conn, *http.Response, error) {
	q := url.Values{}
	if identity != "" {
		q.Set("userId", identity)
	}
	if role != "" {
		q.Set("userRole", role)
	}
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws?" + q.Encode()
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

// Emit writes one inbound event
func Emit(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.Envelope{Event: event, Data: data}))
}

// ReadUntil reads frames until one named event arrives, skipping the others
func ReadUntil(t *testing.T, conn *websocket.Conn, event string) Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var f Frame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %s", event)
		if f.Event == event {
			return f
		}
	}
}

// Decode unmarshals a frame payload
func Decode(t *testing.T, f Frame, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(f.Data, v))
}
