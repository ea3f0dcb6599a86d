package message

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

const MaxContentLength = 5000

type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	IsRead         bool
	CreatedAt      time.Time
	Sender         profile.Summary
}

// NormalizeContent trims text and reports whether it can be sent.
func NormalizeContent(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || utf8.RuneCountInString(s) > MaxContentLength {
		return s, false
	}
	return s, true
}

// Before orders messages by creation time, then by id so equal timestamps stay stable.
func Before(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return strings.Compare(a.ID.String(), b.ID.String()) < 0
}

func SortAscending(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return Before(msgs[i], msgs[j]) })
}
