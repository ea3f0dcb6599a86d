package conversation

import (
	"time"

	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

// Conversation pairs two participants. The pair is unordered: (a, b) and (b, a) are the same row.
type Conversation struct {
	ID        uuid.UUID
	User1ID   uuid.UUID
	User2ID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return userID != uuid.Nil && (c.User1ID == userID || c.User2ID == userID)
}

// OtherParticipant returns the participant that is not userID, or uuid.Nil when userID is not a participant.
func (c Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	default:
		return uuid.Nil
	}
}

// Summary is one row of a participant's conversation list.
type Summary struct {
	Conversation
	OtherUser   profile.Summary
	UnreadCount int
}
