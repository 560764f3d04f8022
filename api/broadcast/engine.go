package broadcast

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/databases"
	"github.com/linesmerrill/relief-chat-api/models"
)

// DefaultDeliveryDelay is how long a message stays "sent" before it is marked delivered
const DefaultDeliveryDelay = 100 * time.Millisecond

// sharedLocationContent is the text body of a message created by share_location
const sharedLocationContent = "Shared location"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Recorder receives per event counters. Implementations must not block.
type Recorder interface {
	EventReceived(event string)
	EventRejected(event string)
	EventFannedOut(event string, delivered, dropped int)
}

type noopRecorder struct{}

func (noopRecorder) EventReceived(string)            {}
func (noopRecorder) EventRejected(string)            {}
func (noopRecorder) EventFannedOut(string, int, int) {}

// Options tune an Engine. Zero values fall back to the defaults.
type Options struct {
	DeliveryDelay   time.Duration
	EscalationRoles []models.Role
	Recorder        Recorder
}

// Engine validates inbound chat events, applies them to the stores and fans the
// resulting events out to the affected sessions.
type Engine struct {
	Sessions databases.SessionDatabase
	Rooms    databases.RoomDatabase
	Typing   databases.TypingDatabase

	escalation []models.Role
	metrics    Recorder
	delivery   *deliveryScheduler
	now        func() time.Time
}

// NewEngine wires an Engine over the given stores
func NewEngine(sessions databases.SessionDatabase, rooms databases.RoomDatabase, typing databases.TypingDatabase, opts Options) *Engine {
	delay := opts.DeliveryDelay
	if delay <= 0 {
		delay = DefaultDeliveryDelay
	}
	escalation := opts.EscalationRoles
	if len(escalation) == 0 {
		escalation = []models.Role{models.RoleAdmin}
	}
	var recorder Recorder = noopRecorder{}
	if opts.Recorder != nil {
		recorder = opts.Recorder
	}
	return &Engine{
		Sessions:   sessions,
		Rooms:      rooms,
		Typing:     typing,
		escalation: escalation,
		metrics:    recorder,
		delivery:   newDeliveryScheduler(delay),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect registers an authenticated session. A session already held by the
// same identity is superseded and its connection closed.
func (e *Engine) Connect(s *models.Session) {
	replaced := e.Sessions.Register(s)
	zap.S().Infow("session connected",
		"identity", s.Identity,
		"role", s.Role,
		"connId", s.ConnID())

	if replaced == nil || replaced.Conn == nil {
		return
	}
	zap.S().Infow("session superseded",
		"identity", s.Identity,
		"oldConnId", replaced.ConnID(),
		"connId", s.ConnID())
	if c, ok := replaced.Conn.(io.Closer); ok {
		if err := c.Close(); err != nil {
			zap.S().Debugw("failed to close superseded connection", "identity", s.Identity, "error", err)
		}
	}
}

// Join adds the session's identity (and the optional counterpart) to the room,
// creating it if needed. The joiner gets the whole history and who is typing,
// the other participants are told about a first join since the identity
// connected.
func (e *Engine) Join(s *models.Session, req models.JoinChatRequest) error {
	if err := e.check(models.EventJoinChat, req); err != nil {
		return err
	}
	counterpart := req.ParticipantID
	if counterpart == s.Identity {
		counterpart = ""
	}

	created := e.Rooms.Join(req.RoomID, s.Identity, counterpart, func(history []models.Message, participants []string, joined bool) {
		e.reply(s, models.EventChatHistory, history)
		for _, typist := range lo.Without(e.Typing.Typing(req.RoomID), s.Identity) {
			e.reply(s, models.EventUserTyping, models.UserTyping{
				RoomID:   req.RoomID,
				UserID:   typist,
				IsTyping: true,
			})
		}
		if !joined {
			return
		}
		e.fanout(models.EventUserJoined, models.UserJoined{
			RoomID:    req.RoomID,
			UserID:    s.Identity,
			Timestamp: e.now(),
		}, participants, s.Identity)
	})

	zap.S().Debugw("joined room",
		"identity", s.Identity,
		"roomId", req.RoomID,
		"created", created)
	return nil
}

// Send appends a message to the room, broadcasts it to every participant
// including the sender and schedules its delivered transition.
func (e *Engine) Send(s *models.Session, req models.SendMessageRequest) (models.Message, error) {
	if err := e.check(models.EventSendMessage, req); err != nil {
		return models.Message{}, err
	}
	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	return e.publish(models.EventSendMessage, s, req.RoomID, msgType, req.Message, req.Location)
}

// ShareLocation is Send with a location payload
func (e *Engine) ShareLocation(s *models.Session, req models.ShareLocationRequest) (models.Message, error) {
	if err := e.check(models.EventShareLocation, req); err != nil {
		return models.Message{}, err
	}
	location := &models.Location{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Address:   req.Address,
	}
	return e.publish(models.EventShareLocation, s, req.RoomID, models.MessageTypeLocation, sharedLocationContent, location)
}

func (e *Engine) publish(event string, s *models.Session, roomID string, msgType models.MessageType, content string, location *models.Location) (models.Message, error) {
	if err := e.requireParticipant(event, roomID, s.Identity); err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		ID:         newMessageID(),
		SenderID:   s.Identity,
		SenderRole: s.Role,
		Content:    content,
		Type:       msgType,
		Location:   location,
		Timestamp:  e.now(),
		Status:     models.MessageStatusSent,
	}
	stored, evicted, err := e.Rooms.AppendMessage(roomID, msg, func(m models.Message, participants []string) {
		e.fanout(models.EventNewMessage, m, participants, "")
	})
	if err != nil {
		e.metrics.EventRejected(event)
		zap.S().Warnw("dropped message for unknown room",
			"identity", s.Identity,
			"roomId", roomID,
			"event", event)
		return models.Message{}, fmt.Errorf("failed to store message: %w", err)
	}

	for _, id := range evicted {
		e.delivery.cancel(id)
	}
	e.scheduleDelivery(stored.RoomID, stored.ID)
	return stored, nil
}

func (e *Engine) scheduleDelivery(roomID, messageID string) {
	e.delivery.schedule(messageID, func() {
		updated := e.Rooms.UpdateMessageStatus(roomID, messageID, models.MessageStatusDelivered, func(participants []string) {
			e.fanout(models.EventMessageStatus, models.MessageStatusUpdate{
				RoomID:    roomID,
				MessageID: messageID,
				Status:    models.MessageStatusDelivered,
			}, participants, "")
		})
		if !updated {
			zap.S().Debugw("dropped delivery update", "roomId", roomID, "messageId", messageID)
		}
	})
}

// SetTyping records the typing state and tells every other participant. The
// sender never sees its own typing events.
func (e *Engine) SetTyping(s *models.Session, req models.TypingRequest, isTyping bool) error {
	event := models.EventTypingStop
	if isTyping {
		event = models.EventTypingStart
	}
	if err := e.check(event, req); err != nil {
		return err
	}
	return e.withMembership(event, req.RoomID, s.Identity, func(participants []string) {
		e.Typing.SetTyping(req.RoomID, s.Identity, isTyping)
		e.fanout(models.EventUserTyping, models.UserTyping{
			RoomID:   req.RoomID,
			UserID:   s.Identity,
			IsTyping: isTyping,
		}, participants, s.Identity)
	})
}

// FlagEmergency escalates a message to every session holding an escalation
// role, whatever rooms they are in, and acknowledges the flagger. The flagged
// message itself is left untouched.
func (e *Engine) FlagEmergency(s *models.Session, req models.FlagEmergencyRequest) error {
	if err := e.check(models.EventFlagEmergency, req); err != nil {
		return err
	}

	if _, err := e.Rooms.Participants(req.RoomID); err != nil {
		zap.S().Warnw("emergency flagged for unknown room",
			"identity", s.Identity,
			"roomId", req.RoomID,
			"messageId", req.MessageID)
	}

	flagged := models.EmergencyFlagged{
		RoomID:    req.RoomID,
		MessageID: req.MessageID,
		FlaggedBy: s.Identity,
		Reason:    req.Reason,
		Timestamp: e.now(),
	}
	targets := lo.Map(e.Sessions.ListByRole(e.escalation...), func(t *models.Session, _ int) string {
		return t.Identity
	})
	e.fanout(models.EventEmergencyFlagged, flagged, targets, "")
	e.reply(s, models.EventEmergencyFlagAck, models.EmergencyFlaggedAck{MessageID: req.MessageID})

	zap.S().Infow("emergency flagged",
		"identity", s.Identity,
		"roomId", req.RoomID,
		"messageId", req.MessageID,
		"escalatedTo", len(targets))
	return nil
}

// MarkRead relays an advisory read receipt to the other participants. Stored
// message status is not changed.
func (e *Engine) MarkRead(s *models.Session, req models.MarkReadRequest) error {
	if err := e.check(models.EventMarkRead, req); err != nil {
		return err
	}
	return e.withMembership(models.EventMarkRead, req.RoomID, s.Identity, func(participants []string) {
		e.fanout(models.EventMessageRead, models.MessageRead{
			RoomID:    req.RoomID,
			MessageID: req.MessageID,
			ReadBy:    s.Identity,
			Timestamp: e.now(),
		}, participants, s.Identity)
	})
}

// Disconnect tears the session down and tells the remaining participants of
// every room the identity is in. Its next join of those rooms is announced
// again. A superseded session is only forgotten: the identity is still online
// through its newer connection.
func (e *Engine) Disconnect(s *models.Session) {
	if !e.Sessions.RemoveSession(s) {
		zap.S().Debugw("superseded session closed", "identity", s.Identity, "connId", s.ConnID())
		return
	}

	for _, entry := range e.Typing.Clear(s.Identity) {
		e.typingExpired(entry)
	}

	rooms := 0
	e.Rooms.Leave(s.Identity, func(roomID string, participants []string) {
		rooms++
		e.fanout(models.EventUserOffline, models.UserOffline{
			RoomID:    roomID,
			UserID:    s.Identity,
			Timestamp: e.now(),
		}, participants, s.Identity)
	})
	zap.S().Infow("session disconnected", "identity", s.Identity, "rooms", rooms)
}

// ExpireTyping clears typing states not refreshed since before and tells the
// rooms they stopped. It returns how many were cleared.
func (e *Engine) ExpireTyping(before time.Time) int {
	expired := e.Typing.Expire(before)
	for _, entry := range expired {
		e.typingExpired(entry)
	}
	return len(expired)
}

func (e *Engine) typingExpired(entry databases.TypingEntry) {
	err := e.Rooms.WithParticipants(entry.RoomID, func(participants []string) {
		e.fanout(models.EventUserTyping, models.UserTyping{
			RoomID:   entry.RoomID,
			UserID:   entry.Identity,
			IsTyping: false,
		}, participants, entry.Identity)
	})
	if err != nil {
		zap.S().Debugw("typing state outlived its room", "roomId", entry.RoomID, "identity", entry.Identity)
	}
}

// PendingDeliveries returns how many delivered transitions are still scheduled
func (e *Engine) PendingDeliveries() int {
	return e.delivery.pending()
}

// Close stops every pending delivery timer. Messages still waiting stay "sent".
func (e *Engine) Close() {
	dropped := e.delivery.stop()
	zap.S().Infow("broadcast engine stopped", "droppedDeliveries", dropped)
}

func (e *Engine) check(event string, req interface{}) error {
	e.metrics.EventReceived(event)
	if err := validate.Struct(req); err != nil {
		e.metrics.EventRejected(event)
		return &models.ValidationError{Event: event, Err: err}
	}
	return nil
}

func (e *Engine) requireParticipant(event, roomID, identity string) error {
	ok, err := e.Rooms.IsParticipant(roomID, identity)
	if err == nil && !ok {
		err = &models.UnknownRoomError{RoomID: roomID}
	}
	if err != nil {
		e.metrics.EventRejected(event)
		zap.S().Warnw("event for a room the sender is not in",
			"identity", identity,
			"roomId", roomID,
			"event", event)
		return err
	}
	return nil
}

// withMembership runs fn with the room locked, provided identity is a participant
func (e *Engine) withMembership(event, roomID, identity string, fn databases.Fanout) error {
	member := false
	err := e.Rooms.WithParticipants(roomID, func(participants []string) {
		if member = lo.Contains(participants, identity); member {
			fn(participants)
		}
	})
	if err == nil && !member {
		err = &models.UnknownRoomError{RoomID: roomID}
	}
	if err != nil {
		e.metrics.EventRejected(event)
		return err
	}
	return nil
}

// fanout queues the event on the live connection of every identity except the
// excluded one. Offline identities are skipped and a full queue drops the event
// for that connection only.
func (e *Engine) fanout(event string, data interface{}, identities []string, except string) {
	env := models.Envelope{Event: event, Data: data}
	delivered, dropped := 0, 0
	for _, identity := range lo.Without(identities, except) {
		target, ok := e.Sessions.Get(identity)
		if !ok || target.Conn == nil {
			continue
		}
		if target.Conn.Send(env) {
			delivered++
			continue
		}
		dropped++
		zap.S().Debugw("dropped outbound event", "event", event, "identity", identity, "connId", target.ConnID())
	}
	e.metrics.EventFannedOut(event, delivered, dropped)
}

// reply sends an event to the session's own connection only
func (e *Engine) reply(s *models.Session, event string, data interface{}) {
	if s.Conn == nil {
		return
	}
	if s.Conn.Send(models.Envelope{Event: event, Data: data}) {
		e.metrics.EventFannedOut(event, 1, 0)
		return
	}
	e.metrics.EventFannedOut(event, 0, 1)
	zap.S().Debugw("dropped reply", "event", event, "identity", s.Identity, "connId", s.ConnID())
}

// newMessageID returns a time ordered unique id
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
