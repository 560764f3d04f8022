package directory

import (
	"github.com/samber/lo"

	"github.com/linesmerrill/relief-chat-api/databases"
	"github.com/linesmerrill/relief-chat-api/models"
)

// Service answers the read only lookups over the session and room stores
type Service struct {
	Sessions databases.SessionDatabase
	Rooms    databases.RoomDatabase
}

// New returns a directory over the given stores
func New(sessions databases.SessionDatabase, rooms databases.RoomDatabase) *Service {
	return &Service{Sessions: sessions, Rooms: rooms}
}

// RoomsFor lists the rooms the identity participates in, oldest first.
// UnreadCount is always 0.
func (s *Service) RoomsFor(identity string) []models.RoomSummary {
	return lo.Map(s.Rooms.RoomsFor(identity), func(r models.Room, _ int) models.RoomSummary {
		return models.RoomSummary{
			RoomID:       r.ID,
			Participants: r.Participants,
			LastMessage:  r.LastMessage,
			UnreadCount:  0,
		}
	})
}

// ActiveUsers lists every online identity
func (s *Service) ActiveUsers() []models.ActiveUser {
	users := s.Sessions.ListOnline()
	if users == nil {
		return []models.ActiveUser{}
	}
	return users
}
