package databases

// go generate: mockery --name RoomDatabase

import (
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/linesmerrill/relief-chat-api/models"
)

// Fanout is handed the room's participants while the room is still locked, so
// events it queues are ordered the same way as the room's history. It must not block.
type Fanout func(participants []string)

// MessageFanout is the Fanout of an append, handed the stored message.
type MessageFanout func(msg models.Message, participants []string)

// JoinFanout is the Fanout of a join: it also receives the history the joiner
// should be replayed and whether this is the identity's first join of the room
// since it last left. A counterpart added by someone else's join has not joined yet.
type JoinFanout func(history []models.Message, participants []string, joined bool)

// RoomDatabase owns room lifecycle, membership and the ordered message history of
// every room. Rooms are created lazily and live until the process exits.
type RoomDatabase interface {
	EnsureRoom(roomID string, initial ...string) (room models.Room, created bool)
	AddParticipant(roomID, identity string) (added bool, err error)
	Join(roomID, identity, counterpart string, fanout JoinFanout) (created bool)
	IsParticipant(roomID, identity string) (bool, error)
	Participants(roomID string) ([]string, error)
	WithParticipants(roomID string, fanout Fanout) error
	AppendMessage(roomID string, msg models.Message, fanout MessageFanout) (stored models.Message, evicted []string, err error)
	History(roomID string) ([]models.Message, error)
	UpdateMessageStatus(roomID, messageID string, status models.MessageStatus, fanout Fanout) bool
	RoomsFor(identity string) []models.Room
	Leave(identity string, fanout func(roomID string, participants []string))
	Stats() (rooms int, messages int)
}

type roomDatabase struct {
	mu         sync.RWMutex
	rooms      map[string]*room
	ids        []string // creation order
	maxHistory int
}

type room struct {
	mu           sync.Mutex
	id           string
	createdAt    time.Time
	members      map[string]struct{}
	joined       map[string]struct{} // identities that joined since they last left
	participants []string            // join order
	messages     []models.Message
	sequences    map[string]int64 // message id -> sequence
	nextSequence int64
}

// NewRoomDatabase initializes an empty room store. maxHistory bounds the number
// of messages kept per room, 0 keeps everything.
func NewRoomDatabase(maxHistory int) RoomDatabase {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &roomDatabase{
		rooms:      make(map[string]*room),
		maxHistory: maxHistory,
	}
}

func (d *roomDatabase) get(roomID string) (*room, error) {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if !ok {
		return nil, &models.UnknownRoomError{RoomID: roomID}
	}
	return r, nil
}

// ensure returns the room, creating it under the store lock if it is missing
func (d *roomDatabase) ensure(roomID string) (*room, bool) {
	d.mu.RLock()
	r, ok := d.rooms[roomID]
	d.mu.RUnlock()
	if ok {
		return r, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if r, ok := d.rooms[roomID]; ok {
		return r, false
	}
	r = &room{
		id:        roomID,
		createdAt: time.Now().UTC(),
		members:   make(map[string]struct{}),
		joined:    make(map[string]struct{}),
		sequences: make(map[string]int64),
	}
	d.rooms[roomID] = r
	d.ids = append(d.ids, roomID)
	return r, true
}

// EnsureRoom creates the room on first call. Later calls merge the given
// participants into the existing set and never replace it.
func (d *roomDatabase) EnsureRoom(roomID string, initial ...string) (models.Room, bool) {
	r, created := d.ensure(roomID)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range initial {
		r.add(identity)
	}
	return r.snapshot(), created
}

func (d *roomDatabase) AddParticipant(roomID, identity string) (bool, error) {
	r, err := d.get(roomID)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(identity), nil
}

// Join ensures the room, adds the joiner and the optional counterpart, and runs
// fanout with the full history under the same critical section.
func (d *roomDatabase) Join(roomID, identity, counterpart string, fanout JoinFanout) bool {
	r, created := d.ensure(roomID)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, rejoin := r.joined[identity]
	r.joined[identity] = struct{}{}
	r.add(identity)
	if counterpart != "" {
		r.add(counterpart)
	}
	if fanout != nil {
		fanout(r.history(), r.roster(), !rejoin)
	}
	return created
}

func (d *roomDatabase) IsParticipant(roomID, identity string) (bool, error) {
	r, err := d.get(roomID)
	if err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[identity]
	return ok, nil
}

func (d *roomDatabase) Participants(roomID string) ([]string, error) {
	r, err := d.get(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roster(), nil
}

// WithParticipants runs fanout with the room locked
func (d *roomDatabase) WithParticipants(roomID string, fanout Fanout) error {
	r, err := d.get(roomID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fanout(r.roster())
	return nil
}

// AppendMessage stores msg at the end of the room's history and stamps it with the
// room sequence. It also returns the ids of the messages the history bound
// evicted. The message is dropped with an UnknownRoomError if the room was never created.
func (d *roomDatabase) AppendMessage(roomID string, msg models.Message, fanout MessageFanout) (models.Message, []string, error) {
	r, err := d.get(roomID)
	if err != nil {
		return models.Message{}, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSequence++
	msg.RoomID = roomID
	msg.Sequence = r.nextSequence
	r.messages = append(r.messages, msg)
	r.sequences[msg.ID] = msg.Sequence

	var evicted []string
	if d.maxHistory > 0 && len(r.messages) > d.maxHistory {
		dropped := r.messages[:len(r.messages)-d.maxHistory]
		for _, m := range dropped {
			delete(r.sequences, m.ID)
			evicted = append(evicted, m.ID)
		}
		r.messages = append([]models.Message(nil), r.messages[len(dropped):]...)
	}

	if fanout != nil {
		fanout(msg, r.roster())
	}
	return msg, evicted, nil
}

func (d *roomDatabase) History(roomID string) ([]models.Message, error) {
	r, err := d.get(roomID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history(), nil
}

// UpdateMessageStatus moves a message forward to status. Unknown rooms, unknown
// or evicted messages and backward transitions are ignored and report false.
func (d *roomDatabase) UpdateMessageStatus(roomID, messageID string, status models.MessageStatus, fanout Fanout) bool {
	r, err := d.get(roomID)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seq, ok := r.sequences[messageID]
	if !ok {
		return false
	}
	m := &r.messages[seq-r.messages[0].Sequence]
	if statusRank(status) <= statusRank(m.Status) {
		return false
	}
	m.Status = status

	if fanout != nil {
		fanout(r.roster())
	}
	return true
}

// RoomsFor returns every room the identity participates in, in creation order
func (d *roomDatabase) RoomsFor(identity string) []models.Room {
	var rooms []models.Room
	for _, r := range d.snapshotRooms() {
		r.mu.Lock()
		if _, ok := r.members[identity]; ok {
			rooms = append(rooms, r.snapshot())
		}
		r.mu.Unlock()
	}
	return rooms
}

// Leave forgets that the identity joined any room, so its next join is announced
// again, and calls fanout for every room it participates in. Membership is kept.
func (d *roomDatabase) Leave(identity string, fanout func(roomID string, participants []string)) {
	for _, r := range d.snapshotRooms() {
		r.mu.Lock()
		if _, ok := r.members[identity]; ok {
			delete(r.joined, identity)
			if fanout != nil {
				fanout(r.id, r.roster())
			}
		}
		r.mu.Unlock()
	}
}

func (d *roomDatabase) Stats() (int, int) {
	rooms := d.snapshotRooms()
	messages := 0
	for _, r := range rooms {
		r.mu.Lock()
		messages += len(r.messages)
		r.mu.Unlock()
	}
	return len(rooms), messages
}

func (d *roomDatabase) snapshotRooms() []*room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return lo.Map(d.ids, func(id string, _ int) *room {
		return d.rooms[id]
	})
}

// the helpers below expect r.mu to be held

func (r *room) add(identity string) bool {
	if identity == "" {
		return false
	}
	if _, ok := r.members[identity]; ok {
		return false
	}
	r.members[identity] = struct{}{}
	r.participants = append(r.participants, identity)
	return true
}

func (r *room) roster() []string {
	return append([]string(nil), r.participants...)
}

func (r *room) history() []models.Message {
	return append([]models.Message{}, r.messages...)
}

func (r *room) snapshot() models.Room {
	snap := models.Room{
		ID:           r.id,
		Participants: r.roster(),
		MessageCount: len(r.messages),
		CreatedAt:    r.createdAt,
	}
	if n := len(r.messages); n > 0 {
		last := r.messages[n-1]
		snap.LastMessage = &last
	}
	return snap
}

func statusRank(s models.MessageStatus) int {
	switch s {
	case models.MessageStatusSent:
		return 1
	case models.MessageStatusDelivered:
		return 2
	default:
		return 0
	}
}
