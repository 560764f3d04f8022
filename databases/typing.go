package databases

import (
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// TypingEntry is one identity currently typing in a room
type TypingEntry struct {
	RoomID   string
	Identity string
	Since    time.Time
}

// TypingDatabase tracks ephemeral per room typing state. Nothing here is part of
// a room's history.
type TypingDatabase interface {
	SetTyping(roomID, identity string, isTyping bool) (changed bool)
	Typing(roomID string) []string
	Expire(before time.Time) []TypingEntry
	Clear(identity string) []TypingEntry
}

type typingDatabase struct {
	mu    sync.Mutex
	rooms map[string]map[string]time.Time
	now   func() time.Time
}

// NewTypingDatabase initializes an empty typing tracker
func NewTypingDatabase() TypingDatabase {
	return &typingDatabase{
		rooms: make(map[string]map[string]time.Time),
		now:   time.Now,
	}
}

// SetTyping overwrites the (room, identity) state, last write wins. A repeated
// start refreshes the timestamp but does not count as a change.
func (d *typingDatabase) SetTyping(roomID, identity string, isTyping bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	typists := d.rooms[roomID]
	_, wasTyping := typists[identity]

	if !isTyping {
		if !wasTyping {
			return false
		}
		delete(typists, identity)
		if len(typists) == 0 {
			delete(d.rooms, roomID)
		}
		return true
	}

	if typists == nil {
		typists = make(map[string]time.Time)
		d.rooms[roomID] = typists
	}
	typists[identity] = d.now()
	return !wasTyping
}

// Typing returns the identities typing in the room, sorted
func (d *typingDatabase) Typing(roomID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	identities := lo.Keys(d.rooms[roomID])
	sort.Strings(identities)
	return identities
}

// Expire clears every typing state last refreshed before the cutoff and returns them
func (d *typingDatabase) Expire(before time.Time) []TypingEntry {
	return d.removeWhere(func(_ string, _ string, since time.Time) bool {
		return since.Before(before)
	})
}

// Clear removes every typing state held by identity
func (d *typingDatabase) Clear(identity string) []TypingEntry {
	return d.removeWhere(func(_ string, id string, _ time.Time) bool {
		return id == identity
	})
}

func (d *typingDatabase) removeWhere(match func(roomID, identity string, since time.Time) bool) []TypingEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	var removed []TypingEntry
	for roomID, typists := range d.rooms {
		for identity, since := range typists {
			if !match(roomID, identity, since) {
				continue
			}
			removed = append(removed, TypingEntry{RoomID: roomID, Identity: identity, Since: since})
			delete(typists, identity)
		}
		if len(typists) == 0 {
			delete(d.rooms, roomID)
		}
	}
	sort.Slice(removed, func(i, j int) bool {
		if removed[i].RoomID != removed[j].RoomID {
			return removed[i].RoomID < removed[j].RoomID
		}
		return removed[i].Identity < removed[j].Identity
	})
	return removed
}
