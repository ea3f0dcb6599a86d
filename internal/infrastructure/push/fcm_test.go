package push

import (
	"context"
	"errors"
	"testing"

	"carenet/internal/usecase"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
)

type memTokens struct {
	tokens  []string
	deleted []string
}

func (m *memTokens) TokensForUser(context.Context, uuid.UUID) ([]string, error) {
	return m.tokens, nil
}

func (m *memTokens) DeleteTokens(_ context.Context, tokens []string) error {
	m.deleted = append(m.deleted, tokens...)
	return nil
}

type scriptedSender struct {
	calls    int
	sent     []*messaging.Message
	failures map[string]error
	err      error
}

func (s *scriptedSender) SendEach(_ context.Context, msgs []*messaging.Message) (*messaging.BatchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, msgs...)
	resp := &messaging.BatchResponse{}
	for _, m := range msgs {
		if err, ok := s.failures[m.Token]; ok {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Error: err})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "m-" + m.Token})
	}
	return resp, nil
}

func TestBuildMessages(t *testing.T) {
	n := usecase.PushNotification{Title: "Dr. Lee", Body: "hello", Data: map[string]string{"conversation_id": "c1"}}
	msgs := buildMessages([]string{"a", "b"}, n)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	m := msgs[1]
	if m.Token != "b" || m.Notification.Title != "Dr. Lee" || m.Notification.Body != "hello" {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.Data["conversation_id"] != "c1" {
		t.Fatalf("expected data to be carried")
	}
	if m.Android.Priority != "high" || *m.APNS.Payload.Aps.Badge != 1 {
		t.Fatalf("unexpected platform config")
	}
}

func TestNotifyUser_NoTokens(t *testing.T) {
	s := &scriptedSender{}
	f := &FCM{client: s, tokens: &memTokens{}}
	if err := f.NotifyUser(context.Background(), uuid.New(), usecase.PushNotification{Title: "x"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.calls != 0 {
		t.Fatalf("expected no FCM call without devices")
	}
}

func TestNotifyUser_BatchesAndLeavesHealthyTokens(t *testing.T) {
	tokens := make([]string, 0, batchSize+3)
	for i := 0; i < batchSize+3; i++ {
		tokens = append(tokens, uuid.NewString())
	}
	s := &scriptedSender{failures: map[string]error{tokens[2]: errors.New("quota exceeded")}}
	store := &memTokens{tokens: tokens}
	f := &FCM{client: s, tokens: store}

	if err := f.NotifyUser(context.Background(), uuid.New(), usecase.PushNotification{Title: "x"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.calls != 2 || len(s.sent) != len(tokens) {
		t.Fatalf("expected 2 batches covering all tokens, got calls=%d sent=%d", s.calls, len(s.sent))
	}
	if len(store.deleted) != 0 {
		t.Fatalf("transient failures must not delete tokens, deleted=%v", store.deleted)
	}
}

func TestNotifyUser_SendError(t *testing.T) {
	f := &FCM{client: &scriptedSender{err: errors.New("boom")}, tokens: &memTokens{tokens: []string{"a"}}}
	if err := f.NotifyUser(context.Background(), uuid.New(), usecase.PushNotification{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("abc"); got != "abc" {
		t.Fatalf("short token should be kept, got %q", got)
	}
	if got := maskToken("0123456789"); got != "...456789" {
		t.Fatalf("unexpected mask %q", got)
	}
}
