package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	SetPhoto(ctx context.Context, id uuid.UUID, kind PhotoKind, url string) error
	SetAccountStatus(ctx context.Context, id uuid.UUID, status AccountStatus) error
	RecordView(ctx context.Context, profileID, viewerID uuid.UUID) error
	Stats(ctx context.Context, id uuid.UUID) (Stats, error)
}
