package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/api"
	"github.com/linesmerrill/relief-chat-api/api/broadcast"
	"github.com/linesmerrill/relief-chat-api/config"
	"github.com/linesmerrill/relief-chat-api/models"
)

// Socket serves the relay websocket. The route must sit behind the handshake
// middleware so the request carries an authenticated session.
type Socket struct {
	Engine          *broadcast.Engine
	Origins         []string
	SendBuffer      int
	WriteTimeout    time.Duration
	PongWait        time.Duration
	MaxMessageBytes int64
}

func (s Socket) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || lo.Contains(s.Origins, origin)
		},
	}
}

// ServeWS upgrades the request and runs the connection until it closes
func (s Socket) ServeWS(w http.ResponseWriter, r *http.Request) {
	session, ok := api.SessionFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, &models.AuthenticationError{Reason: "no handshake session"})
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		zap.S().Warnw("websocket upgrade error", "identity", session.Identity, "error", err)
		return
	}

	c := newClient(conn, s.SendBuffer, s.WriteTimeout, s.PongWait)
	session.Conn = c
	go c.writePump()

	s.Engine.Connect(session)
	s.readPump(session, conn)

	_ = c.Close()
	s.Engine.Disconnect(session)
}

func (s Socket) readPump(session *models.Session, conn *websocket.Conn) {
	if s.MaxMessageBytes > 0 {
		conn.SetReadLimit(s.MaxMessageBytes)
	}
	_ = conn.SetReadDeadline(time.Now().Add(s.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				zap.S().Debugw("websocket read failed", "identity", session.Identity, "error", err)
			}
			return
		}

		var in models.InboundEnvelope
		if err := json.Unmarshal(data, &in); err != nil {
			s.replyError(session, "", &models.ValidationError{Err: fmt.Errorf("malformed frame: %w", err)})
			continue
		}
		if in.Event == models.EventDisconnect {
			return
		}
		zap.S().Debugw("event received", "identity", session.Identity, "event", in.Event)
		if err := s.dispatch(session, in); err != nil {
			s.replyError(session, in.Event, err)
		}
	}
}

func (s Socket) dispatch(session *models.Session, in models.InboundEnvelope) error {
	switch in.Event {
	case models.EventJoinChat:
		var req models.JoinChatRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		return s.Engine.Join(session, req)
	case models.EventSendMessage:
		var req models.SendMessageRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		_, err := s.Engine.Send(session, req)
		return err
	case models.EventShareLocation:
		var req models.ShareLocationRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		_, err := s.Engine.ShareLocation(session, req)
		return err
	case models.EventTypingStart, models.EventTypingStop:
		var req models.TypingRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		return s.Engine.SetTyping(session, req, in.Event == models.EventTypingStart)
	case models.EventFlagEmergency:
		var req models.FlagEmergencyRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		return s.Engine.FlagEmergency(session, req)
	case models.EventMarkRead:
		var req models.MarkReadRequest
		if err := decode(in, &req); err != nil {
			return err
		}
		return s.Engine.MarkRead(session, req)
	default:
		return &models.ValidationError{Event: in.Event, Err: errors.New("unknown event")}
	}
}

func decode(in models.InboundEnvelope, v interface{}) error {
	if len(in.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(in.Data, v); err != nil {
		return &models.ValidationError{Event: in.Event, Err: err}
	}
	return nil
}

// replyError echoes a failed event back to its sender only
func (s Socket) replyError(session *models.Session, event string, err error) {
	message := "event failed"
	switch {
	case errors.Is(err, models.ErrValidation):
		message = "invalid event"
	case errors.Is(err, models.ErrUnknownRoom):
		message = "unknown room"
	}
	zap.S().Debugw(message, "identity", session.Identity, "event", event, "error", err)

	session.Conn.Send(models.Envelope{
		Event: models.EventError,
		Data: models.ErrorEvent{
			Event:   event,
			Message: message,
			Error:   err.Error(),
		},
	})
}
