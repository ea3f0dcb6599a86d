package dto

import (
	"time"

	"carenet/internal/domain/conversation"
	"carenet/internal/domain/message"

	"github.com/google/uuid"
)

type ConversationResponse struct {
	ID          uuid.UUID      `json:"id"`
	User1ID     uuid.UUID      `json:"user1_id"`
	User2ID     uuid.UUID      `json:"user2_id"`
	OtherUser   ProfileSummary `json:"other_user"`
	UnreadCount int            `json:"unread_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewConversationResponses(in []conversation.Summary) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(in))
	for _, s := range in {
		out = append(out, ConversationResponse{
			ID:          s.ID,
			User1ID:     s.User1ID,
			User2ID:     s.User2ID,
			OtherUser:   NewProfileSummary(s.OtherUser),
			UnreadCount: s.UnreadCount,
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out
}

type MessageResponse struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID uuid.UUID      `json:"conversation_id"`
	SenderID       uuid.UUID      `json:"sender_id"`
	Content        string         `json:"content"`
	IsRead         bool           `json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
	Sender         ProfileSummary `json:"sender"`
}

func NewMessageResponse(m message.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		Sender:         NewProfileSummary(m.Sender),
	}
}

func NewMessageResponses(in []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(in))
	for _, m := range in {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

type StartConversationResponse struct {
	ConversationID uuid.UUID `json:"conversationId"`
}
