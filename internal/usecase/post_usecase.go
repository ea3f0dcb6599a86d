package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"carenet/internal/domain/post"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type LikeResult struct {
	Liked     bool
	LikeCount int
}

type PostUsecase interface {
	Feed(ctx context.Context, viewerID uuid.UUID, f post.FeedFilter) ([]post.Post, error)
	Create(ctx context.Context, userID uuid.UUID, content, imageURL string) (post.Post, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (LikeResult, error)
	Comments(ctx context.Context, postID uuid.UUID) ([]post.Comment, error)
	AddComment(ctx context.Context, userID, postID uuid.UUID, content string) (post.Comment, error)
}

type Posts struct {
	repo   post.Repository
	logger *log.Logger
}

func NewPostUsecase(repo post.Repository, logger *log.Logger) *Posts {
	return &Posts{repo: repo, logger: logger}
}

func (u *Posts) Feed(ctx context.Context, viewerID uuid.UUID, f post.FeedFilter) ([]post.Post, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidInput
	}
	items, err := u.repo.Feed(ctx, viewerID, f)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Posts) Create(ctx context.Context, userID uuid.UUID, content, imageURL string) (post.Post, error) {
	text, err := post.NormalizeContent(content)
	if err != nil {
		return post.Post{}, err
	}

	p, err := u.repo.Create(ctx, post.Post{UserID: userID, Content: text, ImageURL: strings.TrimSpace(imageURL)})
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return post.Post{}, ErrNotFound
		}
		return post.Post{}, ErrInternal
	}
	return p, nil
}

// Delete removes the post when the caller wrote it.
func (u *Posts) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	p, err := u.repo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	if err := u.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *Posts) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (LikeResult, error) {
	liked, count, err := u.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return LikeResult{}, ErrNotFound
		}
		return LikeResult{}, ErrInternal
	}
	return LikeResult{Liked: liked, LikeCount: count}, nil
}

func (u *Posts) Comments(ctx context.Context, postID uuid.UUID) ([]post.Comment, error) {
	items, err := u.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Posts) AddComment(ctx context.Context, userID, postID uuid.UUID, content string) (post.Comment, error) {
	text, err := post.NormalizeComment(content)
	if err != nil {
		return post.Comment{}, err
	}

	c, err := u.repo.AddComment(ctx, post.Comment{PostID: postID, UserID: userID, Content: text})
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return post.Comment{}, ErrNotFound
		}
		return post.Comment{}, ErrInternal
	}
	return c, nil
}
