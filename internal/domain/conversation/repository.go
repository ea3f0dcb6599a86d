package conversation

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("conversation not found")
	ErrSelfPairing = errors.New("cannot start a conversation with yourself")
)

type Repository interface {
	// GetOrCreate is atomic on the server: concurrent calls for one unordered pair return the same id.
	GetOrCreate(ctx context.Context, currentUserID, otherUserID uuid.UUID) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Summary, error)
}
