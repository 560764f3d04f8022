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

func textMessage(id, sender string) models.Message {
	return models.Message{
		ID:       id,
		SenderID: sender,
		Content:  "hello " + id,
		Type:     models.MessageTypeText,
		Status:   models.MessageStatusSent,
	}
}

func TestRoomDatabase_EnsureRoomMergesParticipants(t *testing.T) {
	db := NewRoomDatabase(0)

	room, created := db.EnsureRoom("room_u1_a1", "u1", "a1")
	assert.True(t, created)
	assert.Equal(t, []string{"u1", "a1"}, room.Participants)

	room, created = db.EnsureRoom("room_u1_a1", "v1", "u1")
	assert.False(t, created)
	assert.Equal(t, []string{"u1", "a1", "v1"}, room.Participants)
}

func TestRoomDatabase_EnsureRoomIsAtomic(t *testing.T) {
	db := NewRoomDatabase(0)
	var wg sync.WaitGroup
	var mu sync.Mutex
	creations := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, created := db.EnsureRoom("shared", fmt.Sprintf("u%d", i))
			if created {
				mu.Lock()
				creations++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, creations)
	participants, err := db.Participants("shared")
	require.NoError(t, err)
	assert.Len(t, participants, 20)
}

func TestRoomDatabase_JoinIsIdempotent(t *testing.T) {
	db := NewRoomDatabase(0)

	var first, second []models.Message
	var joined bool
	created := db.Join("r1", "u1", "a1", func(h []models.Message, p []string, j bool) {
		joined = j
	})
	assert.True(t, created)
	assert.True(t, joined)

	_, _, err := db.AppendMessage("r1", textMessage("m1", "u1"), nil)
	require.NoError(t, err)

	created = db.Join("r1", "u1", "", func(h []models.Message, p []string, j bool) {
		first, joined = h, j
		assert.Equal(t, []string{"u1", "a1"}, p)
	})
	assert.False(t, created)
	assert.False(t, joined)

	db.Join("r1", "u1", "a1", func(h []models.Message, p []string, j bool) {
		second, joined = h, j
		assert.Equal(t, []string{"u1", "a1"}, p)
	})
	assert.False(t, joined)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)

	// the counterpart was added by u1, its own join is still a first join
	db.Join("r1", "a1", "", func(h []models.Message, p []string, j bool) {
		joined = j
		assert.Equal(t, []string{"u1", "a1"}, p)
	})
	assert.True(t, joined)
}

func TestRoomDatabase_AppendMessageUnknownRoom(t *testing.T) {
	db := NewRoomDatabase(0)

	called := false
	_, _, err := db.AppendMessage("nowhere", textMessage("m1", "u1"), func(models.Message, []string) { called = true })

	var unknown *models.UnknownRoomError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nowhere", unknown.RoomID)
	assert.True(t, errors.Is(err, models.ErrUnknownRoom))
	assert.False(t, called)

	_, err = db.History("nowhere")
	assert.True(t, errors.Is(err, models.ErrUnknownRoom))
	rooms, messages := db.Stats()
	assert.Equal(t, 0, rooms)
	assert.Equal(t, 0, messages)
}

func TestRoomDatabase_HistoryKeepsArrivalOrderUnderConcurrency(t *testing.T) {
	db := NewRoomDatabase(0)
	db.EnsureRoom("r1", "u1", "u2")

	// the order fanout observes must be the order history reports
	var mu sync.Mutex
	var observed []string

	var wg sync.WaitGroup
	for sender := 0; sender < 8; sender++ {
		wg.Add(1)
		go func(sender int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("s%d-%d", sender, i)
				_, _, err := db.AppendMessage("r1", textMessage(id, fmt.Sprintf("u%d", sender)), func(m models.Message, _ []string) {
					mu.Lock()
					observed = append(observed, m.ID)
					mu.Unlock()
				})
				assert.NoError(t, err)
			}
		}(sender)
	}
	wg.Wait()

	history, err := db.History("r1")
	require.NoError(t, err)
	require.Len(t, history, 400)

	ids := make([]string, len(history))
	for i, m := range history {
		ids[i] = m.ID
		assert.Equal(t, int64(i+1), m.Sequence)
		assert.Equal(t, "r1", m.RoomID)
	}
	assert.Equal(t, observed, ids)
}

func TestRoomDatabase_UpdateMessageStatusIsOneWay(t *testing.T) {
	db := NewRoomDatabase(0)
	db.EnsureRoom("r1", "u1")
	_, _, err := db.AppendMessage("r1", textMessage("m1", "u1"), nil)
	require.NoError(t, err)

	var notified []string
	assert.True(t, db.UpdateMessageStatus("r1", "m1", models.MessageStatusDelivered, func(p []string) { notified = p }))
	assert.Equal(t, []string{"u1"}, notified)

	assert.False(t, db.UpdateMessageStatus("r1", "m1", models.MessageStatusDelivered, nil))
	assert.False(t, db.UpdateMessageStatus("r1", "m1", models.MessageStatusSent, nil))
	assert.False(t, db.UpdateMessageStatus("r1", "missing", models.MessageStatusDelivered, nil))
	assert.False(t, db.UpdateMessageStatus("nowhere", "m1", models.MessageStatusDelivered, nil))

	history, _ := db.History("r1")
	assert.Equal(t, models.MessageStatusDelivered, history[0].Status)
}

func TestRoomDatabase_MaxHistoryEvictsOldest(t *testing.T) {
	db := NewRoomDatabase(2)
	db.EnsureRoom("r1", "u1")
	var evicted []string
	for i := 1; i <= 3; i++ {
		_, dropped, err := db.AppendMessage("r1", textMessage(fmt.Sprintf("m%d", i), "u1"), nil)
		require.NoError(t, err)
		evicted = append(evicted, dropped...)
	}
	assert.Equal(t, []string{"m1"}, evicted)

	history, _ := db.History("r1")
	require.Len(t, history, 2)
	assert.Equal(t, "m2", history[0].ID)
	assert.Equal(t, "m3", history[1].ID)

	assert.False(t, db.UpdateMessageStatus("r1", "m1", models.MessageStatusDelivered, nil))
	assert.True(t, db.UpdateMessageStatus("r1", "m3", models.MessageStatusDelivered, nil))
	history, _ = db.History("r1")
	assert.Equal(t, models.MessageStatusDelivered, history[1].Status)
}

func TestRoomDatabase_RoomsForAndLeave(t *testing.T) {
	db := NewRoomDatabase(0)
	db.EnsureRoom("r1", "u1", "a1")
	db.EnsureRoom("r2", "u2", "a1")
	db.EnsureRoom("r3", "u1", "v1")
	_, _, err := db.AppendMessage("r3", textMessage("m1", "v1"), nil)
	require.NoError(t, err)

	rooms := db.RoomsFor("u1")
	require.Len(t, rooms, 2)
	assert.Equal(t, "r1", rooms[0].ID)
	assert.Nil(t, rooms[0].LastMessage)
	assert.Equal(t, "r3", rooms[1].ID)
	require.NotNil(t, rooms[1].LastMessage)
	assert.Equal(t, "m1", rooms[1].LastMessage.ID)

	visited := map[string][]string{}
	db.Leave("a1", func(roomID string, participants []string) {
		visited[roomID] = participants
	})
	assert.Equal(t, map[string][]string{"r1": {"u1", "a1"}, "r2": {"u2", "a1"}}, visited)

	assert.Empty(t, db.RoomsFor("nobody"))
}

func TestRoomDatabase_AddParticipant(t *testing.T) {
	db := NewRoomDatabase(0)

	_, err := db.AddParticipant("r1", "u1")
	assert.True(t, errors.Is(err, models.ErrUnknownRoom))

	db.EnsureRoom("r1")
	added, err := db.AddParticipant("r1", "u1")
	require.NoError(t, err)
	assert.True(t, added)
	added, _ = db.AddParticipant("r1", "u1")
	assert.False(t, added)

	ok, err := db.IsParticipant("r1", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = db.IsParticipant("r1", "u2")
	assert.False(t, ok)
}

func TestRoomDatabase_LeaveMakesNextJoinAFirstJoin(t *testing.T) {
	db := NewRoomDatabase(0)

	var joins []bool
	record := func(_ []models.Message, _ []string, joined bool) { joins = append(joins, joined) }

	db.Join("r1", "u1", "a1", record)
	db.Join("r1", "u1", "a1", record)
	db.Leave("u1", nil)
	db.Join("r1", "u1", "", record)

	assert.Equal(t, []bool{true, false, true}, joins)

	participants, err := db.Participants("r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "a1"}, participants)
}
