package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

var errFeedClosed = errors.New("feed closed")

type fakeConn struct {
	events chan Event
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan Event, 8), closed: make(chan struct{})}
}

func (f *fakeConn) Next() (Event, error) {
	select {
	case ev := <-f.events:
		return ev, nil
	case <-f.closed:
		return Event{}, errFeedClosed
	}
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

// fakeAPI is an in-memory server: one conversation per unordered pair, messages stored per
// conversation in insertion order.
type fakeAPI struct {
	mu       sync.Mutex
	pairs    map[[2]uuid.UUID]uuid.UUID
	messages map[uuid.UUID][]Message
	clock    time.Time

	startCalls    int
	sendCalls     int
	getCalls      int
	markReadCalls int

	listErr      error
	sendErr      error
	sendGate     chan struct{}
	subscribeErr error

	conns chan *fakeConn
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pairs:    make(map[[2]uuid.UUID]uuid.UUID),
		messages: make(map[uuid.UUID][]Message),
		clock:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		conns:    make(chan *fakeConn, 8),
	}
}

func pairKey(a, b uuid.UUID) [2]uuid.UUID {
	if a.String() > b.String() {
		a, b = b, a
	}
	return [2]uuid.UUID{a, b}
}

func (f *fakeAPI) StartConversation(_ context.Context, s Session, other uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	k := pairKey(s.UserID, other)
	if id, ok := f.pairs[k]; ok {
		return id, nil
	}
	id := uuid.New()
	f.pairs[k] = id
	return id, nil
}

func (f *fakeAPI) ListConversations(context.Context, Session) ([]Conversation, error) {
	return nil, nil
}

func (f *fakeAPI) ListMessages(_ context.Context, _ Session, conv uuid.UUID) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Message, len(f.messages[conv]))
	copy(out, f.messages[conv])
	return out, nil
}

// store persists a message as if another client had sent it.
func (f *fakeAPI) store(conv, sender uuid.UUID, content string) Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.storeLocked(conv, sender, content)
}

func (f *fakeAPI) storeLocked(conv, sender uuid.UUID, content string) Message {
	f.clock = f.clock.Add(time.Second)
	m := Message{ID: uuid.New(), ConversationID: conv, SenderID: sender, Content: content, CreatedAt: f.clock}
	f.messages[conv] = append(f.messages[conv], m)
	return m
}

func (f *fakeAPI) SendMessage(ctx context.Context, s Session, conv uuid.UUID, content string) (Message, error) {
	f.mu.Lock()
	f.sendCalls++
	gate := f.sendGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return Message{}, f.sendErr
	}
	return f.storeLocked(conv, s.UserID, content), nil
}

func (f *fakeAPI) MarkRead(_ context.Context, s Session, conv uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadCalls++
	n := 0
	for i, m := range f.messages[conv] {
		if m.SenderID != s.UserID && !m.IsRead {
			f.messages[conv][i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeAPI) GetMessage(_ context.Context, _ Session, id uuid.UUID) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	for _, msgs := range f.messages {
		for _, m := range msgs {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return Message{}, &APIError{Status: 404, Message: "Message not found"}
}

func (f *fakeAPI) Subscribe(context.Context, Session, uuid.UUID) (FeedConn, error) {
	f.mu.Lock()
	err := f.subscribeErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	conn := newFakeConn()
	f.conns <- conn
	return conn, nil
}

func (f *fakeAPI) counts() (send, get, markRead int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCalls, f.getCalls, f.markReadCalls
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func nextConn(t *testing.T, api *fakeAPI) *fakeConn {
	t.Helper()
	select {
	case c := <-api.conns:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("no feed connection opened")
		return nil
	}
}

func confirmed(entries []Entry) []Message {
	var out []Message
	for _, e := range entries {
		if c, ok := e.(Confirmed); ok {
			out = append(out, c.Message)
		}
	}
	return out
}

func pendingEntries(entries []Entry) []Pending {
	var out []Pending
	for _, e := range entries {
		if p, ok := e.(Pending); ok {
			out = append(out, p)
		}
	}
	return out
}
