package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the login identity. Its id is shared with the profile row.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
