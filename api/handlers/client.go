package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/models"
)

// client is the outbound half of one websocket connection. Only writePump
// writes to the socket; everybody else queues through Send.
type client struct {
	id           string
	conn         *websocket.Conn
	send         chan models.Envelope
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
	pingPeriod   time.Duration
}

func newClient(conn *websocket.Conn, buffer int, writeTimeout, pongWait time.Duration) *client {
	if buffer <= 0 {
		buffer = 1
	}
	return &client{
		id:           uuid.New().String(),
		conn:         conn,
		send:         make(chan models.Envelope, buffer),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		pingPeriod:   pongWait * 9 / 10,
	}
}

// ID implements models.Connection
func (c *client) ID() string {
	return c.id
}

// Send queues an event without blocking. It reports false when the queue is
// full or the client is closed.
func (c *client) Send(e models.Envelope) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- e:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which closes the socket and ends the read loop.
// It is safe to call more than once.
func (c *client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case e := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteJSON(e); err != nil {
				zap.S().Debugw("websocket write failed", "connId", c.id, "event", e.Event, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout)); err != nil {
				zap.S().Debugw("websocket ping failed", "connId", c.id, "error", err)
				return
			}
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
			return
		}
	}
}
