package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"carenet/internal/usecase"

	"github.com/google/uuid"
)

const EventMessageInserted = "message_inserted"

type Event struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	Timestamp      string    `json:"timestamp"`
}

// Bus is the cross instance pub/sub transport (Redis in production).
type Bus interface {
	Available() bool
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe calls ready once the subscription is confirmed, then handle for every payload.
	Subscribe(ctx context.Context, channel string, ready func(), handle func([]byte)) error
}

// Relay publishes message events on the bus and feeds bus events into the local hub, so
// every server instance reaches its own websocket clients. Without a bus, or when a publish
// fails, events go to the local hub directly.
type Relay struct {
	hub      *Hub
	bus      Bus
	channel  string
	now      func() time.Time
	wait     func(ctx context.Context, d time.Duration) bool
	minRetry time.Duration
	maxRetry time.Duration
	logger   *log.Logger
}

func NewRelay(hub *Hub, bus Bus, channel string, logger *log.Logger) *Relay {
	if channel == "" {
		channel = "realtime:messages"
	}
	return &Relay{
		hub:      hub,
		bus:      bus,
		channel:  channel,
		now:      time.Now,
		wait:     sleepCtx,
		minRetry: time.Second,
		maxRetry: 30 * time.Second,
		logger:   logger,
	}
}

func (r *Relay) PublishMessageInserted(ctx context.Context, conversationID, messageID uuid.UUID) error {
	b, err := json.Marshal(Event{
		Type:           EventMessageInserted,
		ConversationID: conversationID,
		MessageID:      messageID,
		Timestamp:      r.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	if r.bus != nil && r.bus.Available() {
		err := r.bus.Publish(ctx, r.channel, b)
		if err == nil {
			return nil
		}
		if r.logger != nil {
			r.logger.Printf("Realtime publish failed, delivering locally | conversation_id=%s error=%v", conversationID, err)
		}
	}

	r.hub.Broadcast(conversationID, b)
	return nil
}

// Run relays bus events to the hub until ctx is done. Dropped subscriptions are retried with
// exponential backoff capped at maxRetry; the backoff starts over once a subscription is
// confirmed. Events published while no subscription was live never reach this instance, so
// every local client is reset when a subscription comes back after a failure. It returns
// immediately when no bus is available.
func (r *Relay) Run(ctx context.Context) {
	if r.bus == nil || !r.bus.Available() {
		if r.logger != nil {
			r.logger.Printf("Realtime relay disabled, local delivery only")
		}
		return
	}

	delay := r.minRetry
	failed := false
	ready := func() {
		delay = r.minRetry
		if failed {
			r.hub.Reset("relay_resubscribed")
		}
	}
	for {
		err := r.bus.Subscribe(ctx, r.channel, ready, r.deliver)
		if ctx.Err() != nil {
			return
		}
		failed = true
		if r.logger != nil {
			r.logger.Printf("Realtime subscription lost | channel=%s error=%v retry_in=%s", r.channel, err, delay)
		}
		if !r.wait(ctx, delay) {
			return
		}
		delay = min(delay*2, r.maxRetry)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Relay) deliver(payload []byte) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil || evt.ConversationID == uuid.Nil {
		if r.logger != nil {
			r.logger.Printf("Realtime event ignored | reason=malformed payload=%q", payload)
		}
		return
	}
	r.hub.Broadcast(evt.ConversationID, payload)
}

var _ usecase.RealtimePublisher = (*Relay)(nil)
