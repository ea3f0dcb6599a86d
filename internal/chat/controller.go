package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultRequestTimeout = 15 * time.Second

// API is the remote side of a conversation view. *Client implements it.
type API interface {
	StartConversation(ctx context.Context, s Session, otherUserID uuid.UUID) (uuid.UUID, error)
	ListConversations(ctx context.Context, s Session) ([]Conversation, error)
	ListMessages(ctx context.Context, s Session, conversationID uuid.UUID) ([]Message, error)
	SendMessage(ctx context.Context, s Session, conversationID uuid.UUID, content string) (Message, error)
	MarkRead(ctx context.Context, s Session, conversationID uuid.UUID) (int, error)
	GetMessage(ctx context.Context, s Session, id uuid.UUID) (Message, error)
	Subscribe(ctx context.Context, s Session, conversationID uuid.UUID) (FeedConn, error)
}

// FeedConn is one open realtime connection. Close unblocks a pending Next.
type FeedConn interface {
	Next() (Event, error)
	Close() error
}

type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

type Options struct {
	// RequestTimeout bounds every remote call, sends included. Defaults to 15s.
	RequestTimeout time.Duration
	Notifier       Notifier
	// OnChange is called, from any goroutine, after the visible state changed.
	OnChange func()
	Backoff  func(attempt int) time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Controller drives one conversation view: the conversation list, the ordered message log
// of the open conversation, its realtime feed and the composer with optimistic sends.
type Controller struct {
	api      API
	session  Session
	resolver *Resolver

	timeout  time.Duration
	notifier Notifier
	onChange func()
	backoff  func(int) time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// switching serializes Open, Leave and Close.
	switching sync.Mutex

	mu            sync.Mutex
	active        uuid.UUID
	gen           uint64
	log           *messageLog
	composer      string
	conversations []Conversation
	sub           *subscription
	closed        bool

	background sync.WaitGroup
}

type subscription struct {
	conversationID uuid.UUID
	gen            uint64
	cancel         context.CancelFunc
	done           chan struct{}
}

func NewController(api API, session Session, opts Options) *Controller {
	c := &Controller{
		api:      api,
		session:  session,
		timeout:  opts.RequestTimeout,
		notifier: opts.Notifier,
		onChange: opts.OnChange,
		backoff:  opts.Backoff,
		logger:   opts.Logger,
		now:      opts.Now,
		log:      newMessageLog(),
	}
	if c.timeout <= 0 {
		c.timeout = defaultRequestTimeout
	}
	if c.backoff == nil {
		c.backoff = ExponentialBackoff
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.resolver = NewResolver(api, c.logger)
	return c
}

func (c *Controller) Session() Session { return c.session }

// LoadConversations fetches every conversation of the session user, most recently updated first.
func (c *Controller) LoadConversations(ctx context.Context) ([]Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.api.ListConversations(ctx, c.session)
	if err != nil {
		c.logger.Warn("chat: load conversations failed", slog.Any("error", err))
		return nil, fmt.Errorf("chat: load conversations: %w", err)
	}
	slices.SortStableFunc(items, func(a, b Conversation) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	c.mu.Lock()
	c.conversations = slices.Clone(items)
	c.mu.Unlock()
	c.changed()
	return items, nil
}

func (c *Controller) Conversations() []Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.conversations)
}

// StartWith resolves the conversation with another user and opens it. A conversation missing
// from the cached list is added at the front. On failure no conversation is left selected.
func (c *Controller) StartWith(ctx context.Context, otherUserID uuid.UUID) (uuid.UUID, error) {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	id, err := c.resolver.Resolve(rctx, c.session, otherUserID)
	cancel()
	if err != nil {
		c.Leave()
		return uuid.Nil, err
	}

	c.mu.Lock()
	known := slices.ContainsFunc(c.conversations, func(conv Conversation) bool { return conv.ID == id })
	if !known {
		c.conversations = slices.Insert(c.conversations, 0, Conversation{
			ID:        id,
			OtherUser: Participant{ID: otherUserID},
			UpdatedAt: c.now(),
		})
	}
	c.mu.Unlock()
	if !known {
		c.changed()
	}

	if err := c.Open(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Open makes conversationID the active conversation. The previous subscription is torn
// down first, then the history is loaded oldest first and the realtime feed followed.
// Messages from the other participant are marked read in the background.
func (c *Controller) Open(ctx context.Context, conversationID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return fmt.Errorf("%w: empty conversation id", ErrInvalidInput)
	}

	c.switching.Lock()
	defer c.switching.Unlock()

	c.release()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrNoConversation
	}
	c.gen++
	gen := c.gen
	c.active = conversationID
	c.log.reset()
	c.mu.Unlock()
	c.changed()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.api.Subscribe(ctx, c.session, conversationID)
	if err != nil {
		c.logger.Warn("chat: feed unavailable, retrying in background",
			slog.String("conversation_id", conversationID.String()),
			slog.Any("error", err),
		)
		conn = nil
	}

	msgs, err := c.api.ListMessages(ctx, c.session, conversationID)
	if err != nil {
		if conn != nil {
			_ = conn.Close()
		}
		c.mu.Lock()
		c.active = uuid.Nil
		c.gen++
		c.log.reset()
		c.mu.Unlock()
		c.changed()
		c.logger.Warn("chat: load messages failed",
			slog.String("conversation_id", conversationID.String()),
			slog.Any("error", err),
		)
		return fmt.Errorf("chat: load messages: %w", err)
	}

	subCtx, subCancel := context.WithCancel(context.Background())
	sub := &subscription{conversationID: conversationID, gen: gen, cancel: subCancel, done: make(chan struct{})}

	c.mu.Lock()
	c.log.merge(msgs)
	c.sub = sub
	c.mu.Unlock()
	c.changed()

	go c.follow(subCtx, sub, conn)
	c.markReadInBackground(conversationID, gen)
	return nil
}

// Leave closes the active conversation and releases its subscription.
func (c *Controller) Leave() {
	c.switching.Lock()
	defer c.switching.Unlock()

	c.release()

	c.mu.Lock()
	c.gen++
	c.active = uuid.Nil
	c.log.reset()
	c.mu.Unlock()
	c.changed()
}

// Close releases the subscription and waits for background work.
func (c *Controller) Close() {
	c.switching.Lock()
	defer c.switching.Unlock()

	c.release()

	c.mu.Lock()
	c.closed = true
	c.gen++
	c.active = uuid.Nil
	c.log.reset()
	c.mu.Unlock()

	c.background.Wait()
}

func (c *Controller) Active() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Entries returns the log of the active conversation: confirmed messages in creation order,
// followed by the pending message if one is being sent.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.entries()
}

func (c *Controller) Composer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composer
}

func (c *Controller) SetComposer(text string) {
	c.mu.Lock()
	c.composer = text
	c.mu.Unlock()
}

// Submit sends the composer text. The pending entry is shown and the composer cleared
// before the network call. On failure both are rolled back and the notifier is told.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.active == uuid.Nil {
		c.mu.Unlock()
		return ErrNoConversation
	}
	text := strings.TrimSpace(c.composer)
	if text == "" {
		c.mu.Unlock()
		return ErrEmptyMessage
	}
	if c.log.pending != nil {
		c.mu.Unlock()
		return ErrSendInFlight
	}

	pending := Pending{
		LocalID:    uuid.New(),
		SenderID:   c.session.UserID,
		SenderName: c.session.displayName(),
		Content:    text,
		CreatedAt:  c.now(),
	}
	original := c.composer
	convID, gen := c.active, c.gen
	c.log.pending = &pending
	c.composer = ""
	c.mu.Unlock()
	c.changed()

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	msg, err := c.api.SendMessage(sendCtx, c.session, convID, text)
	cancel()

	c.mu.Lock()
	current := c.gen == gen && c.log.pending != nil && c.log.pending.LocalID == pending.LocalID
	if current {
		c.log.pending = nil
	}
	if err != nil {
		if current && c.composer == "" {
			c.composer = original
		}
		c.mu.Unlock()
		c.changed()

		c.logger.Warn("chat: send failed",
			slog.String("conversation_id", convID.String()),
			slog.Any("error", err),
		)
		if c.notifier != nil {
			c.notifier.Notify(FailedSendNotice)
		}
		return fmt.Errorf("chat: send message: %w", err)
	}
	if current {
		c.log.insert(msg)
	}
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller) markReadInBackground(conversationID uuid.UUID, gen uint64) {
	c.background.Add(1)
	go func() {
		defer c.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if _, err := c.api.MarkRead(ctx, c.session, conversationID); err != nil {
			c.logger.Warn("chat: mark read failed",
				slog.String("conversation_id", conversationID.String()),
				slog.Any("error", err),
			)
			return
		}

		c.mu.Lock()
		if c.gen == gen {
			c.log.markRead(c.session.UserID)
		}
		for i := range c.conversations {
			if c.conversations[i].ID == conversationID {
				c.conversations[i].UnreadCount = 0
			}
		}
		c.mu.Unlock()
		c.changed()
	}()
}

// release cancels the current subscription and waits until its goroutine exited.
func (c *Controller) release() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub == nil {
		return
	}
	sub.cancel()
	<-sub.done
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func isAPIStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
