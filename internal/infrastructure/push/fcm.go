package push

import (
	"context"
	"fmt"
	"log"

	"carenet/internal/config"
	"carenet/internal/usecase"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// FCM limits SendEach to 500 messages per call.
const batchSize = 500

type TokenStore interface {
	TokensForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type batchSender interface {
	SendEach(ctx context.Context, messages []*messaging.Message) (*messaging.BatchResponse, error)
}

type FCM struct {
	client batchSender
	tokens TokenStore
	logger *log.Logger
}

func NewFCM(ctx context.Context, cfg config.PushConfig, tokens TokenStore, logger *log.Logger) (*FCM, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client init failed: %w", err)
	}
	return &FCM{client: client, tokens: tokens, logger: logger}, nil
}

// NotifyUser sends n to every device registered by userID. Tokens that FCM reports as
// unregistered are removed so later pushes skip them.
func (f *FCM) NotifyUser(ctx context.Context, userID uuid.UUID, n usecase.PushNotification) error {
	tokens, err := f.tokens.TokensForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	var stale []string
	for i := 0; i < len(tokens); i += batchSize {
		end := min(i+batchSize, len(tokens))
		batch := tokens[i:end]

		resp, err := f.client.SendEach(ctx, buildMessages(batch, n))
		if err != nil {
			return fmt.Errorf("FCM batch[%d:%d] failed: %w", i, end, err)
		}
		for j, r := range resp.Responses {
			if r.Success {
				continue
			}
			if messaging.IsUnregistered(r.Error) {
				stale = append(stale, batch[j])
				continue
			}
			if f.logger != nil {
				f.logger.Printf("[Push] Send failed | user_id=%s token=%s error=%v", userID, maskToken(batch[j]), r.Error)
			}
		}
	}

	if len(stale) > 0 {
		if err := f.tokens.DeleteTokens(ctx, stale); err != nil {
			return fmt.Errorf("delete stale tokens: %w", err)
		}
		if f.logger != nil {
			f.logger.Printf("[Push] Removed stale tokens | user_id=%s count=%d", userID, len(stale))
		}
	}
	return nil
}

func buildMessages(tokens []string, n usecase.PushNotification) []*messaging.Message {
	badge := 1
	out := make([]*messaging.Message, 0, len(tokens))
	for _, token := range tokens {
		out = append(out, &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Body,
			},
			Data: n.Data,
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
						Badge: &badge,
					},
				},
			},
			Android: &messaging.AndroidConfig{
				Notification: &messaging.AndroidNotification{
					Sound: "default",
				},
				Priority: "high",
			},
		})
	}
	return out
}

// maskToken keeps the last 6 characters for logs.
func maskToken(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}

var _ usecase.PushNotifier = (*FCM)(nil)
