package databases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypingDatabase_LastWriteWins(t *testing.T) {
	db := NewTypingDatabase()

	assert.True(t, db.SetTyping("r1", "u1", true))
	assert.False(t, db.SetTyping("r1", "u1", true))
	assert.True(t, db.SetTyping("r1", "u2", true))
	assert.Equal(t, []string{"u1", "u2"}, db.Typing("r1"))

	assert.True(t, db.SetTyping("r1", "u1", false))
	assert.False(t, db.SetTyping("r1", "u1", false))
	assert.Equal(t, []string{"u2"}, db.Typing("r1"))

	// stop before start is fine
	assert.False(t, db.SetTyping("r2", "u3", false))
	assert.Empty(t, db.Typing("r2"))
}

func TestTypingDatabase_Expire(t *testing.T) {
	db := NewTypingDatabase().(*typingDatabase)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }
	db.SetTyping("r1", "u1", true)

	now = now.Add(30 * time.Second)
	db.SetTyping("r1", "u2", true)

	expired := db.Expire(now.Add(-10 * time.Second))
	assert.Equal(t, []TypingEntry{{RoomID: "r1", Identity: "u1", Since: now.Add(-30 * time.Second)}}, expired)
	assert.Equal(t, []string{"u2"}, db.Typing("r1"))
}

func TestTypingDatabase_Clear(t *testing.T) {
	db := NewTypingDatabase()
	db.SetTyping("r1", "u1", true)
	db.SetTyping("r2", "u1", true)
	db.SetTyping("r2", "u2", true)

	cleared := db.Clear("u1")
	assert.Len(t, cleared, 2)
	assert.Equal(t, "r1", cleared[0].RoomID)
	assert.Equal(t, "r2", cleared[1].RoomID)
	assert.Empty(t, db.Typing("r1"))
	assert.Equal(t, []string{"u2"}, db.Typing("r2"))
}
