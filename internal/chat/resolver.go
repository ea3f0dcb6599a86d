package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type conversationStarter interface {
	StartConversation(ctx context.Context, s Session, otherUserID uuid.UUID) (uuid.UUID, error)
}

// Resolver finds or creates the single conversation between the session user and another
// user. Pairing is done atomically by the server, so repeated or concurrent calls for the
// same pair converge on one id.
type Resolver struct {
	api    conversationStarter
	logger *slog.Logger
}

func NewResolver(api conversationStarter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, s Session, otherUserID uuid.UUID) (uuid.UUID, error) {
	if otherUserID == uuid.Nil || otherUserID == s.UserID {
		return uuid.Nil, fmt.Errorf("%w: cannot start a conversation with %s", ErrInvalidInput, otherUserID)
	}

	id, err := r.api.StartConversation(ctx, s, otherUserID)
	if err != nil {
		r.logger.Warn("chat: resolve conversation failed",
			slog.String("other_user_id", otherUserID.String()),
			slog.Any("error", err),
		)
		return uuid.Nil, fmt.Errorf("chat: resolve conversation: %w", err)
	}
	return id, nil
}
