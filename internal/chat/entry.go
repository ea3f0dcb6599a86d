package chat

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Entry is one line of a conversation view, either Pending or Confirmed.
type Entry interface {
	isEntry()
}

// Pending is a message shown before the server stored it.
type Pending struct {
	LocalID    uuid.UUID
	SenderID   uuid.UUID
	SenderName string
	Content    string
	CreatedAt  time.Time
}

// Confirmed is a message the server stored.
type Confirmed struct {
	Message Message
}

func (Pending) isEntry()   {}
func (Confirmed) isEntry() {}

// messageLog keeps confirmed messages sorted by creation time, unique by id, with at most
// one pending entry after them.
type messageLog struct {
	messages []Message
	ids      map[uuid.UUID]struct{}
	pending  *Pending
}

func newMessageLog() *messageLog {
	return &messageLog{ids: make(map[uuid.UUID]struct{})}
}

func (l *messageLog) reset() {
	l.messages = nil
	l.ids = make(map[uuid.UUID]struct{})
	l.pending = nil
}

func (l *messageLog) has(id uuid.UUID) bool {
	_, ok := l.ids[id]
	return ok
}

// insert adds m at its position by creation time, after messages with the same timestamp.
// It reports false when the id is already present.
func (l *messageLog) insert(m Message) bool {
	if l.has(m.ID) {
		return false
	}
	i, _ := slices.BinarySearchFunc(l.messages, m.CreatedAt, func(e Message, t time.Time) int {
		if e.CreatedAt.After(t) {
			return 1
		}
		return -1
	})
	l.messages = slices.Insert(l.messages, i, m)
	l.ids[m.ID] = struct{}{}
	return true
}

func (l *messageLog) merge(msgs []Message) int {
	added := 0
	for _, m := range msgs {
		if l.insert(m) {
			added++
		}
	}
	return added
}

// markRead flags messages from other senders as read without touching order or content.
func (l *messageLog) markRead(reader uuid.UUID) {
	for i := range l.messages {
		if l.messages[i].SenderID != reader {
			l.messages[i].IsRead = true
		}
	}
}

func (l *messageLog) entries() []Entry {
	out := make([]Entry, 0, len(l.messages)+1)
	for _, m := range l.messages {
		out = append(out, Confirmed{Message: m})
	}
	if l.pending != nil {
		out = append(out, *l.pending)
	}
	return out
}
