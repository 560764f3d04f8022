package databases

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/relief-chat-api/models"
)

type stubConn struct{ id string }

func (c stubConn) ID() string                  { return c.id }
func (c stubConn) Send(_ models.Envelope) bool { return true }

func newSession(t *testing.T, db SessionDatabase, identity, role, connID string) *models.Session {
	t.Helper()
	s, err := db.Authenticate(identity, role)
	require.NoError(t, err)
	s.Conn = stubConn{id: connID}
	return s
}

func TestSessionDatabase_AuthenticateRequiresIdentity(t *testing.T) {
	db := NewSessionDatabase()

	_, err := db.Authenticate("  ", "user")
	assert.True(t, errors.Is(err, models.ErrAuthentication))

	_, err = db.Authenticate("u1", "superuser")
	assert.True(t, errors.Is(err, models.ErrAuthentication))

	s, err := db.Authenticate("u1", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, s.Role)
	assert.Equal(t, models.SessionStatusOnline, s.Status)
	assert.Equal(t, 0, db.Count(), "authenticate does not register")
}

func TestSessionDatabase_RegisterSupersedes(t *testing.T) {
	db := NewSessionDatabase()
	first := newSession(t, db, "u1", "user", "c1")
	second := newSession(t, db, "u1", "user", "c2")

	assert.Nil(t, db.Register(first))
	assert.Same(t, first, db.Register(second))
	assert.Equal(t, 1, db.Count())

	// tearing down the superseded connection keeps the newer one online
	assert.False(t, db.RemoveSession(first))
	got, ok := db.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "c2", got.ConnID())

	assert.True(t, db.RemoveSession(second))
	assert.Equal(t, 0, db.Count())
}

func TestSessionDatabase_RemoveIsIdempotent(t *testing.T) {
	db := NewSessionDatabase()
	db.Register(newSession(t, db, "u1", "user", "c1"))

	db.Remove("u1")
	db.Remove("u1")
	db.Remove("never-there")

	_, ok := db.Get("u1")
	assert.False(t, ok)
}

func TestSessionDatabase_ListOnlineAndByRole(t *testing.T) {
	db := NewSessionDatabase()
	db.Register(newSession(t, db, "u1", "user", "c1"))
	db.Register(newSession(t, db, "v1", "volunteer", "c2"))
	db.Register(newSession(t, db, "a1", "admin", "c3"))
	db.Register(newSession(t, db, "a2", "admin", "c4"))

	assert.ElementsMatch(t, []models.ActiveUser{
		{UserID: "u1", Status: models.SessionStatusOnline, Role: models.RoleUser},
		{UserID: "v1", Status: models.SessionStatusOnline, Role: models.RoleVolunteer},
		{UserID: "a1", Status: models.SessionStatusOnline, Role: models.RoleAdmin},
		{UserID: "a2", Status: models.SessionStatusOnline, Role: models.RoleAdmin},
	}, db.ListOnline())

	admins := db.ListByRole(models.RoleAdmin)
	assert.Len(t, admins, 2)
	assert.Len(t, db.ListByRole(models.RoleAdmin, models.RoleVolunteer), 3)
	assert.Empty(t, db.ListByRole())
}

func TestSessionDatabase_ConcurrentRegisterAndRemove(t *testing.T) {
	db := NewSessionDatabase()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity := fmt.Sprintf("u%d", i)
			s, _ := db.Authenticate(identity, "user")
			s.Conn = stubConn{id: identity}
			db.Register(s)
			if i%2 == 0 {
				db.Remove(identity)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, db.Count())
	for i := 1; i < 50; i += 2 {
		_, ok := db.Get(fmt.Sprintf("u%d", i))
		assert.True(t, ok)
	}
}
