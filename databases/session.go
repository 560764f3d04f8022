package databases

// go generate: mockery --name SessionDatabase

import (
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/linesmerrill/relief-chat-api/models"
)

// SessionDatabase is the registry of live sessions, one entry per identity.
// It is the single source of truth for who is online.
type SessionDatabase interface {
	Authenticate(identity, role string) (*models.Session, error)
	Register(s *models.Session) (replaced *models.Session)
	Remove(identity string)
	RemoveSession(s *models.Session) bool
	Get(identity string) (*models.Session, bool)
	ListOnline() []models.ActiveUser
	ListByRole(roles ...models.Role) []*models.Session
	Count() int
}

type sessionDatabase struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewSessionDatabase initializes an empty session registry
func NewSessionDatabase() SessionDatabase {
	return &sessionDatabase{
		sessions: make(map[string]*models.Session),
	}
}

// Authenticate validates an externally asserted identity and role and returns
// an unregistered session for it.
func (d *sessionDatabase) Authenticate(identity, role string) (*models.Session, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, &models.AuthenticationError{Reason: "identity is required"}
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, &models.AuthenticationError{Reason: "unknown role " + role}
	}
	return &models.Session{
		Identity:    identity,
		Role:        r,
		Status:      models.SessionStatusOnline,
		ConnectedAt: time.Now().UTC(),
	}, nil
}

// Register inserts the session, superseding any session already held by the
// same identity. The superseded session is returned so its connection can be retired.
func (d *sessionDatabase) Register(s *models.Session) *models.Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.sessions[s.Identity]
	d.sessions[s.Identity] = s
	if old == s {
		return nil
	}
	return old
}

// Remove deletes the identity's session. Unknown identities are ignored.
func (d *sessionDatabase) Remove(identity string) {
	d.mu.Lock()
	delete(d.sessions, identity)
	d.mu.Unlock()
}

// RemoveSession deletes the entry only while it still belongs to the given
// connection, so tearing down a superseded connection leaves the newer one online.
func (d *sessionDatabase) RemoveSession(s *models.Session) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.sessions[s.Identity]
	if !ok || current.ConnID() != s.ConnID() {
		return false
	}
	delete(d.sessions, s.Identity)
	return true
}

func (d *sessionDatabase) Get(identity string) (*models.Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.sessions[identity]
	return s, ok
}

// ListOnline returns a snapshot of every online identity, in no particular order
func (d *sessionDatabase) ListOnline() []models.ActiveUser {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.MapToSlice(d.sessions, func(identity string, s *models.Session) models.ActiveUser {
		return models.ActiveUser{UserID: identity, Status: s.Status, Role: s.Role}
	})
}

// ListByRole returns the sessions holding any of the given roles
func (d *sessionDatabase) ListByRole(roles ...models.Role) []*models.Session {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return lo.Filter(lo.Values(d.sessions), func(s *models.Session, _ int) bool {
		return lo.Contains(roles, s.Role)
	})
}

func (d *sessionDatabase) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}
