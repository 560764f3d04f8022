package models

import "time"

// Room is a point in time copy of a chat room. Participants are in join order.
type Room struct {
	ID           string    `json:"roomId"`
	Participants []string  `json:"participants"`
	LastMessage  *Message  `json:"lastMessage,omitempty"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RoomSummary is the directory listing entry for a room.
// UnreadCount is always 0, the relay does not track read state.
type RoomSummary struct {
	RoomID       string   `json:"roomId"`
	Participants []string `json:"participants"`
	LastMessage  *Message `json:"lastMessage"`
	UnreadCount  int      `json:"unreadCount"`
}
