package post

import (
	"strings"
	"time"
	"unicode/utf8"

	"carenet/internal/domain"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

const (
	MaxContentLength = 3000
	MaxCommentLength = 1000
)

type Post struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Content      string
	ImageURL     string
	CreatedAt    time.Time
	Author       profile.Summary
	LikeCount    int
	CommentCount int
	LikedByMe    bool
}

type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
	Author    profile.Summary
}

func NormalizeContent(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewValidationError("content", "post cannot be empty")
	}
	if utf8.RuneCountInString(s) > MaxContentLength {
		return "", domain.NewValidationError("content", "post cannot exceed 3000 characters")
	}
	return s, nil
}

func NormalizeComment(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewValidationError("content", "comment cannot be empty")
	}
	if utf8.RuneCountInString(s) > MaxCommentLength {
		return "", domain.NewValidationError("content", "comment is too long")
	}
	return s, nil
}
