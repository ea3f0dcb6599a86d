package chat

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// follow consumes the realtime feed of one conversation until the subscription is
// released. A lost connection is redialed with backoff, and after every reconnect the full
// history is merged so events missed while offline still show up.
func (c *Controller) follow(ctx context.Context, sub *subscription, conn FeedConn) {
	defer close(sub.done)

	logger := c.logger.With(slog.String("conversation_id", sub.conversationID.String()))
	attempt := 0
	for {
		if conn == nil {
			if !sleepCtx(ctx, c.backoff(attempt)) {
				return
			}
			attempt++

			var err error
			conn, err = c.api.Subscribe(ctx, c.session, sub.conversationID)
			if err != nil {
				if isAPIStatus(err, http.StatusForbidden) || isAPIStatus(err, http.StatusNotFound) {
					logger.Warn("chat: feed refused, giving up", slog.Any("error", err))
					return
				}
				logger.Debug("chat: feed reconnect failed", slog.Int("attempt", attempt), slog.Any("error", err))
				conn = nil
				continue
			}
			attempt = 0
			logger.Info("chat: feed reconnected")
			c.resync(ctx, sub)
		}

		c.consume(ctx, sub, conn)
		_ = conn.Close()
		conn = nil

		if ctx.Err() != nil {
			return
		}
		logger.Warn("chat: feed lost")
	}
}

func (c *Controller) consume(ctx context.Context, sub *subscription, conn FeedConn) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		ev, err := conn.Next()
		if err != nil {
			return
		}
		if ev.ConversationID != uuid.Nil && ev.ConversationID != sub.conversationID {
			continue
		}
		c.merge(ctx, sub, ev.MessageID)
	}
}

// merge fetches a message announced by the feed unless the log already holds it.
func (c *Controller) merge(ctx context.Context, sub *subscription, messageID uuid.UUID) {
	c.mu.Lock()
	skip := c.gen != sub.gen || c.log.has(messageID)
	c.mu.Unlock()
	if skip {
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	msg, err := c.api.GetMessage(fetchCtx, c.session, messageID)
	cancel()
	if err != nil {
		c.logger.Warn("chat: fetch announced message failed",
			slog.String("message_id", messageID.String()),
			slog.Any("error", err),
		)
		return
	}
	if msg.ConversationID != sub.conversationID {
		return
	}

	c.mu.Lock()
	added := c.gen == sub.gen && c.log.insert(msg)
	c.mu.Unlock()
	if added {
		c.changed()
	}
}

func (c *Controller) resync(ctx context.Context, sub *subscription) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	msgs, err := c.api.ListMessages(fetchCtx, c.session, sub.conversationID)
	cancel()
	if err != nil {
		c.logger.Warn("chat: history refetch failed",
			slog.String("conversation_id", sub.conversationID.String()),
			slog.Any("error", err),
		)
		return
	}

	c.mu.Lock()
	added := 0
	if c.gen == sub.gen {
		added = c.log.merge(msgs)
	}
	c.mu.Unlock()
	if added > 0 {
		c.changed()
	}
}
