package mail

import (
	"context"
	"fmt"
	"log"
	"time"

	"carenet/internal/config"
	"carenet/internal/usecase"

	"gopkg.in/gomail.v2"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender delivers HTML mail over SMTP, retrying with exponential backoff (1s, 2s, 4s...).
type Sender struct {
	from     string
	dialer   dialer
	attempts int
	backoff  func(attempt int) time.Duration
	logger   *log.Logger
}

func NewSender(cfg config.MailConfig, logger *log.Logger) *Sender {
	attempts := cfg.SendAttempts
	if attempts <= 0 {
		attempts = 3
	}
	return &Sender{
		from:     fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		attempts: attempts,
		backoff:  exponential,
		logger:   logger,
	}
}

func exponential(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("email send cancelled: %w", err)
		}
		lastErr = s.dialer.DialAndSend(m)
		if lastErr == nil {
			if s.logger != nil {
				s.logger.Printf("[Mail] Sent | to=%s subject=%q", to, subject)
			}
			return nil
		}
		if attempt == s.attempts-1 {
			break
		}

		delay := s.backoff(attempt)
		if s.logger != nil {
			s.logger.Printf("[Mail] Send failed | attempt=%d to=%s error=%v retry_in=%s", attempt+1, to, lastErr, delay)
		}
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("email send cancelled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed to send email to %s after %d attempts: %w", to, s.attempts, lastErr)
}

var _ usecase.Mailer = (*Sender)(nil)
