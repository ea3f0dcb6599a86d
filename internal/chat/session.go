package chat

import "github.com/google/uuid"

// Session is the signed in user a controller acts for.
type Session struct {
	UserID   uuid.UUID
	FullName string
	Token    string
}

func (s Session) displayName() string {
	if s.FullName == "" {
		return "You"
	}
	return s.FullName
}
