package models

import "time"

// SessionStatus is the presence status reported by the directory
type SessionStatus string

// SessionStatusOnline is the only status a registered session can have
const SessionStatusOnline SessionStatus = "online"

// Connection is the outbound side of a live connection. Send must never block:
// it returns false when the event could not be queued.
type Connection interface {
	ID() string
	Send(e Envelope) bool
}

// Session binds an authenticated identity to its live connection
type Session struct {
	Identity    string
	Role        Role
	Status      SessionStatus
	Conn        Connection
	ConnectedAt time.Time
}

// ConnID returns the id of the session's connection, or "" when it has none
func (s *Session) ConnID() string {
	if s == nil || s.Conn == nil {
		return ""
	}
	return s.Conn.ID()
}

// ActiveUser is the directory view of an online session
type ActiveUser struct {
	UserID string        `json:"userId"`
	Status SessionStatus `json:"status"`
	Role   Role          `json:"role"`
}
