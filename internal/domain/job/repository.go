package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
)

type ListFilter struct {
	JobType string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	ListActive(ctx context.Context, f ListFilter) ([]Job, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a Application) (Application, error)
	HasApplied(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]Application, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) error
}
