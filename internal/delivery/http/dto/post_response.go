package dto

import (
	"time"

	"carenet/internal/domain/post"

	"github.com/google/uuid"
)

type PostResponse struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	Content      string         `json:"content"`
	ImageURL     string         `json:"image_url"`
	CreatedAt    time.Time      `json:"created_at"`
	Author       ProfileSummary `json:"author"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	LikedByMe    bool           `json:"liked_by_me"`
}

func NewPostResponse(p post.Post) PostResponse {
	return PostResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		Author:       NewProfileSummary(p.Author),
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		LikedByMe:    p.LikedByMe,
	}
}

func NewPostResponses(in []post.Post) []PostResponse {
	out := make([]PostResponse, 0, len(in))
	for _, p := range in {
		out = append(out, NewPostResponse(p))
	}
	return out
}

type CommentResponse struct {
	ID        uuid.UUID      `json:"id"`
	PostID    uuid.UUID      `json:"post_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Author    ProfileSummary `json:"author"`
}

func NewCommentResponse(c post.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		Author:    NewProfileSummary(c.Author),
	}
}

func NewCommentResponses(in []post.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(in))
	for _, c := range in {
		out = append(out, NewCommentResponse(c))
	}
	return out
}

type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
