package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Headline     string    `json:"headline"`
	ProfilePhoto string    `json:"profile_photo"`
}

type Conversation struct {
	ID          uuid.UUID   `json:"id"`
	OtherUser   Participant `json:"other_user"`
	UnreadCount int         `json:"unread_count"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id"`
	Content        string      `json:"content"`
	IsRead         bool        `json:"is_read"`
	CreatedAt      time.Time   `json:"created_at"`
	Sender         Participant `json:"sender"`
}

func (m Message) validate() error {
	switch {
	case m.ID == uuid.Nil:
		return fmt.Errorf("%w: message without id", ErrInvalidInput)
	case m.ConversationID == uuid.Nil:
		return fmt.Errorf("%w: message %s without conversation", ErrInvalidInput, m.ID)
	case m.SenderID == uuid.Nil:
		return fmt.Errorf("%w: message %s without sender", ErrInvalidInput, m.ID)
	case m.CreatedAt.IsZero():
		return fmt.Errorf("%w: message %s without timestamp", ErrInvalidInput, m.ID)
	}
	return nil
}

// Event is a realtime notification that a message was stored.
type Event struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	Timestamp      string    `json:"timestamp"`
}

const eventMessageInserted = "message_inserted"
