package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("post not found")

type FeedFilter struct {
	AuthorID *uuid.UUID
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, p Post) (Post, error)
	GetByID(ctx context.Context, id, viewerID uuid.UUID) (Post, error)
	Feed(ctx context.Context, viewerID uuid.UUID, f FeedFilter) ([]Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleLike flips the (user, post) like and returns the new state with the post's like count.
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error)
	AddComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]Comment, error)
}
