package careteam

import (
	"context"
	"errors"

	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("care team request not found")
	ErrAlreadyExists = errors.New("care team relation already exists")
)

type Repository interface {
	// FindBetween looks in both directions. Returns ErrNotFound when the users are unrelated.
	FindBetween(ctx context.Context, a, b uuid.UUID) (Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (Request, error)
	Create(ctx context.Context, requesterID, receiverID uuid.UUID) (Request, error)
	Accept(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBetween(ctx context.Context, a, b uuid.UUID) (int64, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Request, error)
	Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]profile.Summary, error)
}
