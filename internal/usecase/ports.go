package usecase

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RealtimePublisher fans a stored message out to the conversation's live subscribers.
type RealtimePublisher interface {
	PublishMessageInserted(ctx context.Context, conversationID, messageID uuid.UUID) error
}

type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushNotifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, n PushNotification) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type ImageHost interface {
	UploadImage(ctx context.Context, filename string, body io.Reader) (string, error)
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

const backgroundTimeout = 20 * time.Second

// background runs notification work detached from the request that triggered it.
type background func(name string, fn func(ctx context.Context) error)

func detached(logger *log.Logger) background {
	return func(name string, fn func(ctx context.Context) error) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
			defer cancel()
			if err := fn(ctx); err != nil && logger != nil {
				logger.Printf("Background task failed | task=%s error=%v", name, err)
			}
		}()
	}
}
