package message

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("message not found")
	ErrEmptyContent = errors.New("message content is empty")
)

type Repository interface {
	// Create stores the message and bumps the conversation's updated_at in one transaction.
	Create(ctx context.Context, m Message) (Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
	// MarkRead flags messages in the conversation that readerID did not send. Returns rows changed.
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}
