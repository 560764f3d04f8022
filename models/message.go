package models

import "time"

// MessageType classifies the payload of a message
type MessageType string

// Message types accepted by send_message
const (
	MessageTypeText      MessageType = "text"
	MessageTypeLocation  MessageType = "location"
	MessageTypeEmergency MessageType = "emergency"
)

// MessageStatus is the server owned delivery state, it only moves from sent to delivered
type MessageStatus string

// Message delivery states
const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
)

// Location is a shared position with a free text label
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// Message holds a chat message as stored in a room's history
type Message struct {
	ID         string        `json:"id"`
	RoomID     string        `json:"roomId"`
	Sequence   int64         `json:"sequence"`
	SenderID   string        `json:"senderId"`
	SenderRole Role          `json:"senderRole"`
	Content    string        `json:"content"`
	Type       MessageType   `json:"type"`
	Location   *Location     `json:"location,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     MessageStatus `json:"status"`
}
