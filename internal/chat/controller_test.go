package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type harness struct {
	api     *fakeAPI
	ctrl    *Controller
	me      uuid.UUID
	other   uuid.UUID
	conv    uuid.UUID
	notices *noticeLog
}

type noticeLog struct {
	mu    sync.Mutex
	items []string
}

func (n *noticeLog) Notify(msg string) {
	n.mu.Lock()
	n.items = append(n.items, msg)
	n.mu.Unlock()
}

func (n *noticeLog) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.items...)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{api: newFakeAPI(), me: uuid.New(), other: uuid.New(), notices: &noticeLog{}}
	h.conv, _ = h.api.StartConversation(context.Background(), Session{UserID: h.me}, h.other)
	h.ctrl = NewController(h.api, Session{UserID: h.me, FullName: "Dr. Ana", Token: "tok"}, Options{
		Notifier: h.notices,
		Backoff:  func(int) time.Duration { return time.Millisecond },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) open(t *testing.T) *fakeConn {
	t.Helper()
	if err := h.ctrl.Open(context.Background(), h.conv); err != nil {
		t.Fatalf("open: %v", err)
	}
	return nextConn(t, h.api)
}

func TestResolver_SamePairSameConversation(t *testing.T) {
	api := newFakeAPI()
	a, b := uuid.New(), uuid.New()
	r := NewResolver(api, nil)

	ab, err := r.Resolve(context.Background(), Session{UserID: a}, b)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ba, err := r.Resolve(context.Background(), Session{UserID: b}, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ab != ba {
		t.Fatalf("expected same conversation, got %s and %s", ab, ba)
	}
}

func TestResolver_RejectsSelfWithoutRemoteCall(t *testing.T) {
	api := newFakeAPI()
	me := uuid.New()

	_, err := NewResolver(api, nil).Resolve(context.Background(), Session{UserID: me}, me)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.startCalls != 0 {
		t.Fatalf("expected no remote call, got %d", api.startCalls)
	}
}

func TestController_OpenOrdersHistoryAndMarksRead(t *testing.T) {
	h := newHarness(t)
	first := h.api.store(h.conv, h.other, "hi")
	second := h.api.store(h.conv, h.me, "hello back")
	third := h.api.store(h.conv, h.other, "how are you")

	// serve the history out of order
	h.api.mu.Lock()
	h.api.messages[h.conv] = []Message{third, first, second}
	h.api.mu.Unlock()

	h.open(t)

	waitFor(t, func() bool {
		msgs := confirmed(h.ctrl.Entries())
		return len(msgs) == 3 && msgs[0].IsRead && msgs[2].IsRead
	})

	msgs := confirmed(h.ctrl.Entries())
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("messages out of order at %d", i)
		}
	}
	want := []string{"hi", "hello back", "how are you"}
	for i, m := range msgs {
		if m.Content != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], m.Content)
		}
	}
	if msgs[1].IsRead {
		t.Fatalf("own message must not be marked read")
	}
	if _, _, marks := h.api.counts(); marks != 1 {
		t.Fatalf("expected one mark read call, got %d", marks)
	}
}

func TestController_OpenFailureLeavesNoConversation(t *testing.T) {
	h := newHarness(t)
	h.api.listErr = errors.New("boom")

	if err := h.ctrl.Open(context.Background(), h.conv); err == nil {
		t.Fatalf("expected error")
	}
	if h.ctrl.Active() != uuid.Nil {
		t.Fatalf("expected no active conversation")
	}
	conn := nextConn(t, h.api)
	if !conn.isClosed() {
		t.Fatalf("expected feed to be closed after failed open")
	}
	if err := h.ctrl.Submit(context.Background()); !errors.Is(err, ErrNoConversation) {
		t.Fatalf("expected ErrNoConversation, got %v", err)
	}
}

func TestController_SubmitSuccessReplacesPending(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	h.ctrl.SetComposer("  Hello  ")
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries := h.ctrl.Entries()
	if len(pendingEntries(entries)) != 0 {
		t.Fatalf("expected no pending entry")
	}
	msgs := confirmed(entries)
	if len(msgs) != 1 || msgs[0].Content != "Hello" || msgs[0].SenderID != h.me {
		t.Fatalf("expected one confirmed Hello, got %+v", msgs)
	}
	if h.ctrl.Composer() != "" {
		t.Fatalf("expected cleared composer, got %q", h.ctrl.Composer())
	}
}

func TestController_SubmitFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	h.api.sendErr = &APIError{Status: 500, Message: "internal server error"}

	h.ctrl.SetComposer("Hello")
	err := h.ctrl.Submit(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}

	for _, e := range h.ctrl.Entries() {
		switch v := e.(type) {
		case Pending:
			t.Fatalf("pending entry left behind: %+v", v)
		case Confirmed:
			if v.Message.Content == "Hello" {
				t.Fatalf("failed message still listed")
			}
		}
	}
	if h.ctrl.Composer() != "Hello" {
		t.Fatalf("expected composer restored, got %q", h.ctrl.Composer())
	}
	if got := h.notices.all(); len(got) != 1 || got[0] != FailedSendNotice {
		t.Fatalf("expected failure notice, got %v", got)
	}
}

func TestController_SubmitRejectsBlankInput(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		h.ctrl.SetComposer(text)
		if err := h.ctrl.Submit(context.Background()); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("%q: expected ErrEmptyMessage, got %v", text, err)
		}
	}
	if send, _, _ := h.api.counts(); send != 0 {
		t.Fatalf("expected no send, got %d", send)
	}
	if len(h.ctrl.Entries()) != 0 {
		t.Fatalf("expected empty log")
	}
}

func TestController_SingleSendInFlight(t *testing.T) {
	h := newHarness(t)
	h.open(t)
	gate := make(chan struct{})
	h.api.sendGate = gate

	h.ctrl.SetComposer("first")
	done := make(chan error, 1)
	go func() { done <- h.ctrl.Submit(context.Background()) }()

	waitFor(t, func() bool { return len(pendingEntries(h.ctrl.Entries())) == 1 })
	if h.ctrl.Composer() != "" {
		t.Fatalf("composer must be cleared before the send completes")
	}
	p := pendingEntries(h.ctrl.Entries())[0]
	if p.Content != "first" || p.SenderID != h.me || p.SenderName != "Dr. Ana" {
		t.Fatalf("unexpected pending entry %+v", p)
	}

	h.ctrl.SetComposer("second")
	if err := h.ctrl.Submit(context.Background()); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("expected ErrSendInFlight, got %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h.ctrl.Composer() != "second" {
		t.Fatalf("composer text typed during the send must be kept, got %q", h.ctrl.Composer())
	}
}

func TestController_SendTimesOut(t *testing.T) {
	api := newFakeAPI()
	me, other := uuid.New(), uuid.New()
	conv, _ := api.StartConversation(context.Background(), Session{UserID: me}, other)
	api.sendGate = make(chan struct{})

	notices := &noticeLog{}
	ctrl := NewController(api, Session{UserID: me}, Options{
		RequestTimeout: 50 * time.Millisecond,
		Notifier:       notices,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer ctrl.Close()

	if err := ctrl.Open(context.Background(), conv); err != nil {
		t.Fatalf("open: %v", err)
	}
	nextConn(t, api)

	ctrl.SetComposer("stuck")
	if err := ctrl.Submit(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if ctrl.Composer() != "stuck" {
		t.Fatalf("expected composer restored after timeout")
	}
	if len(notices.all()) != 1 {
		t.Fatalf("expected one notice")
	}
}

func TestController_RealtimeMergesOnce(t *testing.T) {
	h := newHarness(t)
	conn := h.open(t)

	incoming := h.api.store(h.conv, h.other, "are you on shift?")
	conn.events <- Event{Type: eventMessageInserted, ConversationID: h.conv, MessageID: incoming.ID}
	waitFor(t, func() bool { return len(confirmed(h.ctrl.Entries())) == 1 })

	_, getsAfterFirst, _ := h.api.counts()
	conn.events <- Event{Type: eventMessageInserted, ConversationID: h.conv, MessageID: incoming.ID}

	// an own message already reconciled by the send must not be fetched again
	h.ctrl.SetComposer("yes")
	if err := h.ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	msgs := confirmed(h.ctrl.Entries())
	conn.events <- Event{Type: eventMessageInserted, ConversationID: h.conv, MessageID: msgs[len(msgs)-1].ID}

	marker := h.api.store(h.conv, h.other, "ok")
	conn.events <- Event{Type: eventMessageInserted, ConversationID: h.conv, MessageID: marker.ID}
	waitFor(t, func() bool { return len(confirmed(h.ctrl.Entries())) == 3 })

	if _, gets, _ := h.api.counts(); gets != getsAfterFirst+1 {
		t.Fatalf("expected only the new message to be fetched, got %d fetches", gets-getsAfterFirst)
	}
	seen := map[uuid.UUID]int{}
	for _, m := range confirmed(h.ctrl.Entries()) {
		seen[m.ID]++
		if seen[m.ID] > 1 {
			t.Fatalf("duplicate message %s", m.ID)
		}
	}
}

func TestController_SwitchReleasesPreviousFeed(t *testing.T) {
	h := newHarness(t)
	first := h.open(t)

	otherConv, _ := h.api.StartConversation(context.Background(), Session{UserID: h.me}, uuid.New())
	h.api.store(otherConv, h.me, "second thread")
	if err := h.ctrl.Open(context.Background(), otherConv); err != nil {
		t.Fatalf("open: %v", err)
	}
	second := nextConn(t, h.api)

	if !first.isClosed() {
		t.Fatalf("previous feed must be closed")
	}
	if second.isClosed() {
		t.Fatalf("new feed must stay open")
	}
	msgs := confirmed(h.ctrl.Entries())
	if len(msgs) != 1 || msgs[0].ConversationID != otherConv {
		t.Fatalf("expected only the new conversation's history, got %+v", msgs)
	}

	h.ctrl.Leave()
	if !second.isClosed() {
		t.Fatalf("leave must close the feed")
	}
	if h.ctrl.Active() != uuid.Nil {
		t.Fatalf("expected no active conversation after leave")
	}
}

func TestController_ReconnectRefetchesHistory(t *testing.T) {
	h := newHarness(t)
	conn := h.open(t)

	missed := h.api.store(h.conv, h.other, "sent while offline")
	_ = conn.Close()

	reconnected := nextConn(t, h.api)
	waitFor(t, func() bool {
		for _, m := range confirmed(h.ctrl.Entries()) {
			if m.ID == missed.ID {
				return true
			}
		}
		return false
	})

	live := h.api.store(h.conv, h.other, "after reconnect")
	reconnected.events <- Event{Type: eventMessageInserted, ConversationID: h.conv, MessageID: live.ID}
	waitFor(t, func() bool { return len(confirmed(h.ctrl.Entries())) == 2 })
}

func TestController_GivesUpWhenFeedRefused(t *testing.T) {
	h := newHarness(t)
	conn := h.open(t)

	h.api.mu.Lock()
	h.api.subscribeErr = &APIError{Status: 403, Message: "forbidden"}
	h.api.mu.Unlock()
	_ = conn.Close()

	h.ctrl.mu.Lock()
	sub := h.ctrl.sub
	h.ctrl.mu.Unlock()
	select {
	case <-sub.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber kept retrying a refused feed")
	}
}

func TestController_FirstMessageScenario(t *testing.T) {
	api := newFakeAPI()
	a, b := uuid.New(), uuid.New()
	ctrl := NewController(api, Session{UserID: a, Token: "tok"}, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer ctrl.Close()

	conv, err := ctrl.StartWith(context.Background(), b)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	nextConn(t, api)

	ctrl.SetComposer("Hello")
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, _ := api.ListMessages(context.Background(), Session{UserID: b}, conv)
	if len(stored) != 1 || stored[0].Content != "Hello" || stored[0].IsRead {
		t.Fatalf("expected one unread Hello for the receiver, got %+v", stored)
	}
	again, err := NewResolver(api, nil).Resolve(context.Background(), Session{UserID: b}, a)
	if err != nil || again != conv {
		t.Fatalf("receiver must resolve to the same conversation, got %s err=%v", again, err)
	}
}

func TestController_StartWithSelfLeavesNothingSelected(t *testing.T) {
	h := newHarness(t)
	h.open(t)

	if _, err := h.ctrl.StartWith(context.Background(), h.me); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if h.ctrl.Active() != uuid.Nil {
		t.Fatalf("expected no conversation selected")
	}
}

func TestController_StartWithAddsConversationToList(t *testing.T) {
	h := newHarness(t)

	conv, err := h.ctrl.StartWith(context.Background(), h.other)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	nextConn(t, h.api)

	list := h.ctrl.Conversations()
	if len(list) != 1 || list[0].ID != conv || list[0].OtherUser.ID != h.other {
		t.Fatalf("expected the new conversation at the front, got %+v", list)
	}

	if _, err := h.ctrl.StartWith(context.Background(), h.other); err != nil {
		t.Fatalf("start again: %v", err)
	}
	nextConn(t, h.api)
	if got := h.ctrl.Conversations(); len(got) != 1 {
		t.Fatalf("expected no duplicate entry, got %+v", got)
	}
}

func TestExponentialBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 30 * time.Second, 30 * time.Second}
	for i, w := range want {
		if got := ExponentialBackoff(i); got != w {
			t.Fatalf("attempt %d: expected %s, got %s", i, w, got)
		}
	}
	if got := ExponentialBackoff(100); got != maxBackoff {
		t.Fatalf("expected cap, got %s", got)
	}
}
