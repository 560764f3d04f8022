package models

import (
	"encoding/json"
	"time"
)

// Inbound events, client to relay
const (
	EventJoinChat      = "join_chat"
	EventSendMessage   = "send_message"
	EventShareLocation = "share_location"
	EventTypingStart   = "typing_start"
	EventTypingStop    = "typing_stop"
	EventFlagEmergency = "flag_emergency"
	EventMarkRead      = "mark_read"
	EventDisconnect    = "disconnect"
)

// Outbound events, relay to client
const (
	EventChatHistory      = "chat_history"
	EventNewMessage       = "new_message"
	EventUserJoined       = "user_joined"
	EventUserTyping       = "user_typing"
	EventMessageStatus    = "message_status"
	EventEmergencyFlagged = "emergency_flagged"
	EventEmergencyFlagAck = "emergency_flagged_ack"
	EventMessageRead      = "message_read"
	EventUserOffline      = "user_offline"
	EventError            = "error"
)

// Envelope is the frame exchanged over the websocket in both directions
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// InboundEnvelope is an Envelope whose payload has not been decoded yet
type InboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinChatRequest is the join_chat payload
type JoinChatRequest struct {
	RoomID        string `json:"roomId" validate:"required"`
	ParticipantID string `json:"participantId"`
}

// SendMessageRequest is the send_message payload
type SendMessageRequest struct {
	RoomID   string      `json:"roomId" validate:"required"`
	Message  string      `json:"message" validate:"required_without=Location"`
	Type     MessageType `json:"type" validate:"omitempty,oneof=text location emergency"`
	Location *Location   `json:"location" validate:"required_if=Type location"`
}

// ShareLocationRequest is the share_location payload
type ShareLocationRequest struct {
	RoomID    string   `json:"roomId" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string   `json:"address"`
}

// TypingRequest is the typing_start and typing_stop payload
type TypingRequest struct {
	RoomID string `json:"roomId" validate:"required"`
}

// FlagEmergencyRequest is the flag_emergency payload
type FlagEmergencyRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	MessageID string `json:"messageId" validate:"required"`
	Reason    string `json:"reason"`
}

// MarkReadRequest is the mark_read payload
type MarkReadRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	MessageID string `json:"messageId" validate:"required"`
}

// UserJoined notifies the other participants of a room about a join
type UserJoined struct {
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// UserTyping carries the typing state of one participant
type UserTyping struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// MessageStatusUpdate is broadcast when a message changes delivery status
type MessageStatusUpdate struct {
	RoomID    string        `json:"roomId"`
	MessageID string        `json:"messageId"`
	Status    MessageStatus `json:"status"`
}

// EmergencyFlagged is escalated to every session holding a privileged role
type EmergencyFlagged struct {
	RoomID    string    `json:"roomId"`
	MessageID string    `json:"messageId"`
	FlaggedBy string    `json:"flaggedBy"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// EmergencyFlaggedAck is returned to the flagging connection only
type EmergencyFlaggedAck struct {
	MessageID string `json:"messageId"`
}

// MessageRead is the advisory read receipt relayed to the other participants
type MessageRead struct {
	RoomID    string    `json:"roomId"`
	MessageID string    `json:"messageId"`
	ReadBy    string    `json:"readBy"`
	Timestamp time.Time `json:"timestamp"`
}

// UserOffline notifies a room that one of its participants disconnected
type UserOffline struct {
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is echoed to the connection whose event failed
type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
