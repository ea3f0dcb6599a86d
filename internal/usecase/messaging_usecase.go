package usecase

import (
	"context"
	"errors"
	"log"
	"unicode/utf8"

	"carenet/internal/domain"
	"carenet/internal/domain/conversation"
	"carenet/internal/domain/message"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type MessagingUsecase interface {
	StartConversation(ctx context.Context, currentUserID, otherUserID uuid.UUID) (uuid.UUID, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]conversation.Summary, error)
	Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]message.Message, error)
	Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (message.Message, error)
	MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error)
	GetMessage(ctx context.Context, userID, messageID uuid.UUID) (message.Message, error)
	CheckParticipant(ctx context.Context, userID, conversationID uuid.UUID) error
}

type Messaging struct {
	conversations conversation.Repository
	messages      message.Repository
	realtime      RealtimePublisher
	push          PushNotifier
	runAsync      background
	logger        *log.Logger
}

func NewMessagingUsecase(conversations conversation.Repository, messages message.Repository, realtime RealtimePublisher, push PushNotifier, logger *log.Logger) *Messaging {
	return &Messaging{
		conversations: conversations,
		messages:      messages,
		realtime:      realtime,
		push:          push,
		runAsync:      detached(logger),
		logger:        logger,
	}
}

// StartConversation returns the single conversation between the two users, creating it on first contact.
func (u *Messaging) StartConversation(ctx context.Context, currentUserID, otherUserID uuid.UUID) (uuid.UUID, error) {
	if currentUserID == uuid.Nil || otherUserID == uuid.Nil {
		return uuid.Nil, ErrInvalidInput
	}
	if currentUserID == otherUserID {
		return uuid.Nil, domain.NewValidationError("other_user_id", conversation.ErrSelfPairing.Error())
	}

	id, err := u.conversations.GetOrCreate(ctx, currentUserID, otherUserID)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrSelfPairing):
			return uuid.Nil, domain.NewValidationError("other_user_id", err.Error())
		case errors.Is(err, profile.ErrNotFound):
			return uuid.Nil, ErrNotFound
		}
		if u.logger != nil {
			u.logger.Printf("Conversation get-or-create failed | user_id=%s other_user_id=%s error=%v", currentUserID, otherUserID, err)
		}
		return uuid.Nil, ErrInternal
	}
	return id, nil
}

func (u *Messaging) ListConversations(ctx context.Context, userID uuid.UUID) ([]conversation.Summary, error) {
	items, err := u.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Messaging) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]message.Message, error) {
	if _, err := u.participantConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	items, err := u.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, ErrInternal
	}
	message.SortAscending(items)
	return items, nil
}

// Send stores a message, then announces it on the realtime feed and pushes it to the other participant.
func (u *Messaging) Send(ctx context.Context, userID, conversationID uuid.UUID, content string) (message.Message, error) {
	text, ok := message.NormalizeContent(content)
	if !ok {
		if text == "" {
			return message.Message{}, domain.NewValidationError("content", "message cannot be empty")
		}
		if utf8.RuneCountInString(text) > message.MaxContentLength {
			return message.Message{}, domain.NewValidationError("content", "message is too long")
		}
	}

	conv, err := u.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return message.Message{}, err
	}

	msg, err := u.messages.Create(ctx, message.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        text,
	})
	if err != nil {
		if errors.Is(err, message.ErrEmptyContent) {
			return message.Message{}, domain.NewValidationError("content", "message cannot be empty")
		}
		if u.logger != nil {
			u.logger.Printf("Message insert failed | conversation_id=%s sender_id=%s error=%v", conversationID, userID, err)
		}
		return message.Message{}, ErrInternal
	}

	if u.realtime != nil {
		if err := u.realtime.PublishMessageInserted(ctx, conversationID, msg.ID); err != nil && u.logger != nil {
			u.logger.Printf("Realtime publish failed | conversation_id=%s message_id=%s error=%v", conversationID, msg.ID, err)
		}
	}

	if u.push != nil {
		recipient := conv.OtherParticipant(userID)
		n := PushNotification{
			Title: senderTitle(msg.Sender),
			Body:  preview(msg.Content, 120),
			Data: map[string]string{
				"type":            "message",
				"conversation_id": conversationID.String(),
				"message_id":      msg.ID.String(),
			},
		}
		u.runAsync("push_message", func(ctx context.Context) error {
			return u.push.NotifyUser(ctx, recipient, n)
		})
	}

	return msg, nil
}

// MarkRead flags the other participant's messages as read. The caller's own messages are untouched.
func (u *Messaging) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	if _, err := u.participantConversation(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	n, err := u.messages.MarkRead(ctx, conversationID, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

func (u *Messaging) GetMessage(ctx context.Context, userID, messageID uuid.UUID) (message.Message, error) {
	msg, err := u.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, message.ErrNotFound) {
			return message.Message{}, ErrNotFound
		}
		return message.Message{}, ErrInternal
	}
	if _, err := u.participantConversation(ctx, userID, msg.ConversationID); err != nil {
		if errors.Is(err, ErrForbidden) {
			return message.Message{}, ErrNotFound
		}
		return message.Message{}, err
	}
	return msg, nil
}

func (u *Messaging) CheckParticipant(ctx context.Context, userID, conversationID uuid.UUID) error {
	_, err := u.participantConversation(ctx, userID, conversationID)
	return err
}

func (u *Messaging) participantConversation(ctx context.Context, userID, conversationID uuid.UUID) (conversation.Conversation, error) {
	conv, err := u.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return conversation.Conversation{}, ErrNotFound
		}
		return conversation.Conversation{}, ErrInternal
	}
	if !conv.HasParticipant(userID) {
		return conversation.Conversation{}, ErrForbidden
	}
	return conv, nil
}

func senderTitle(s profile.Summary) string {
	if s.FullName != "" {
		return s.FullName
	}
	return "New message"
}

func preview(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-1]) + "…"
}
