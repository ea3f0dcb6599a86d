package chat

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMessage   = errors.New("chat: message is empty")
	ErrSendInFlight   = errors.New("chat: a message is already being sent")
	ErrNoConversation = errors.New("chat: no conversation selected")
	ErrInvalidInput   = errors.New("chat: invalid input")
)

// FailedSendNotice is shown to the user when a message could not be persisted.
const FailedSendNotice = "Failed to send message. Please try again."

// APIError is a non 2xx answer from the API, carrying the envelope message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat: api returned %d: %s", e.Status, e.Message)
}
