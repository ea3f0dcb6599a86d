package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"path/filepath"
	"strings"
	"time"

	"carenet/internal/domain"
	"carenet/internal/domain/job"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type JobDetail struct {
	Job        job.Job
	HasApplied bool
}

type JobUsecase interface {
	Create(ctx context.Context, employerID uuid.UUID, j job.Job) (job.Job, error)
	List(ctx context.Context, f job.ListFilter) ([]job.Job, error)
	Detail(ctx context.Context, viewerID, jobID uuid.UUID) (JobDetail, error)
	Apply(ctx context.Context, applicantID, jobID uuid.UUID, a job.Application) (job.Application, error)
	UploadResume(ctx context.Context, userID uuid.UUID, up Upload) (string, error)
	Sent(ctx context.Context, applicantID uuid.UUID) ([]job.Application, error)
	Received(ctx context.Context, employerID uuid.UUID) ([]job.Application, error)
	Application(ctx context.Context, employerID, applicationID uuid.UUID) (job.Application, error)
	ResumeURL(ctx context.Context, employerID, applicationID uuid.UUID) (string, error)
	UpdateStatus(ctx context.Context, employerID, applicationID uuid.UUID, status job.ApplicationStatus) (job.Application, error)
}

type Jobs struct {
	jobs           job.Repository
	applications   job.ApplicationRepository
	storage        ObjectStorage
	mailer         Mailer
	push           PushNotifier
	signedURLTTL   time.Duration
	maxResumeBytes int64
	appURL         string
	runAsync       background
	logger         *log.Logger
}

type JobsConfig struct {
	SignedURLTTL   time.Duration
	MaxResumeBytes int64
	AppURL         string
}

func NewJobUsecase(jobs job.Repository, applications job.ApplicationRepository, storage ObjectStorage, mailer Mailer, push PushNotifier, cfg JobsConfig, logger *log.Logger) *Jobs {
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = time.Hour
	}
	return &Jobs{
		jobs:           jobs,
		applications:   applications,
		storage:        storage,
		mailer:         mailer,
		push:           push,
		signedURLTTL:   cfg.SignedURLTTL,
		maxResumeBytes: cfg.MaxResumeBytes,
		appURL:         strings.TrimRight(cfg.AppURL, "/"),
		runAsync:       detached(logger),
		logger:         logger,
	}
}

func (u *Jobs) Create(ctx context.Context, employerID uuid.UUID, j job.Job) (job.Job, error) {
	j.EmployerID = employerID
	if err := j.Normalize(); err != nil {
		return job.Job{}, err
	}

	created, err := u.jobs.Create(ctx, j)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, ErrInternal
	}
	if u.logger != nil {
		u.logger.Printf("Job posted | job_id=%s employer_id=%s type=%s", created.ID, employerID, created.JobType)
	}
	return created, nil
}

func (u *Jobs) List(ctx context.Context, f job.ListFilter) ([]job.Job, error) {
	f.JobType = strings.ToLower(strings.TrimSpace(f.JobType))
	if f.JobType != "" && !job.ValidJobType(f.JobType) {
		return nil, domain.NewValidationError("job_type", "unknown job type")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidInput
	}

	items, err := u.jobs.ListActive(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Jobs) Detail(ctx context.Context, viewerID, jobID uuid.UUID) (JobDetail, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return JobDetail{}, ErrNotFound
		}
		return JobDetail{}, ErrInternal
	}

	applied, err := u.applications.HasApplied(ctx, jobID, viewerID)
	if err != nil {
		return JobDetail{}, ErrInternal
	}
	return JobDetail{Job: j, HasApplied: applied}, nil
}

// Apply validates the form before any write. A missing credential field never reaches the store.
func (u *Jobs) Apply(ctx context.Context, applicantID, jobID uuid.UUID, a job.Application) (job.Application, error) {
	a.JobID = jobID
	a.ApplicantID = applicantID
	a.Status = job.StatusPending
	if err := a.Normalize(); err != nil {
		return job.Application{}, err
	}

	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Application{}, ErrNotFound
		}
		return job.Application{}, ErrInternal
	}
	if !j.IsActive {
		return job.Application{}, ErrNotFound
	}
	if j.EmployerID == applicantID {
		return job.Application{}, ErrForbidden
	}

	created, err := u.applications.Create(ctx, a)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrAlreadyApplied):
			return job.Application{}, ErrConflict
		case errors.Is(err, job.ErrNotFound):
			return job.Application{}, ErrNotFound
		}
		return job.Application{}, ErrInternal
	}

	if u.logger != nil {
		u.logger.Printf("Application submitted | application_id=%s job_id=%s applicant_id=%s", created.ID, jobID, applicantID)
	}
	if u.push != nil {
		n := PushNotification{
			Title: "New application",
			Body:  fmt.Sprintf("%s applied for %s", created.Applicant.FullName, j.Title),
			Data:  map[string]string{"type": "job_application", "application_id": created.ID.String()},
		}
		u.runAsync("push_application", func(ctx context.Context) error {
			return u.push.NotifyUser(ctx, j.EmployerID, n)
		})
	}
	return created, nil
}

// UploadResume stores the file under resumes/<user>/ and returns the object key.
func (u *Jobs) UploadResume(ctx context.Context, userID uuid.UUID, up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return "", domain.NewValidationError("resume", "must be a PDF, DOC or DOCX file")
	}
	if up.Size <= 0 {
		return "", domain.NewValidationError("resume", "file is empty")
	}
	if u.maxResumeBytes > 0 && up.Size > u.maxResumeBytes {
		return "", domain.NewValidationError("resume", fmt.Sprintf("file must be at most %d MB", u.maxResumeBytes/(1<<20)))
	}
	if u.storage == nil {
		return "", ErrUnavailable
	}

	key := fmt.Sprintf("resumes/%s/%s%s", userID, uuid.NewString(), ext)
	if err := u.storage.Upload(ctx, key, up.Body, up.Size, contentType); err != nil {
		if u.logger != nil {
			u.logger.Printf("Resume upload failed | user_id=%s error=%v", userID, err)
		}
		return "", ErrInternal
	}
	return key, nil
}

func (u *Jobs) Sent(ctx context.Context, applicantID uuid.UUID) ([]job.Application, error) {
	items, err := u.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Jobs) Received(ctx context.Context, employerID uuid.UUID) ([]job.Application, error) {
	items, err := u.applications.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// Application returns the full application to the employer who posted the job.
func (u *Jobs) Application(ctx context.Context, employerID, applicationID uuid.UUID) (job.Application, error) {
	a, err := u.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, job.ErrApplicationNotFound) {
			return job.Application{}, ErrNotFound
		}
		return job.Application{}, ErrInternal
	}
	if a.Job.EmployerID != employerID {
		return job.Application{}, ErrForbidden
	}
	return a, nil
}

func (u *Jobs) ResumeURL(ctx context.Context, employerID, applicationID uuid.UUID) (string, error) {
	a, err := u.Application(ctx, employerID, applicationID)
	if err != nil {
		return "", err
	}
	if a.ResumeKey == "" {
		return "", ErrNotFound
	}
	if u.storage == nil {
		return "", ErrUnavailable
	}

	url, err := u.storage.SignedURL(ctx, a.ResumeKey, u.signedURLTTL)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("Resume URL signing failed | application_id=%s error=%v", applicationID, err)
		}
		return "", ErrInternal
	}
	return url, nil
}

func (u *Jobs) UpdateStatus(ctx context.Context, employerID, applicationID uuid.UUID, status job.ApplicationStatus) (job.Application, error) {
	if !status.Valid() {
		return job.Application{}, domain.NewValidationError("status", "unknown application status")
	}

	a, err := u.Application(ctx, employerID, applicationID)
	if err != nil {
		return job.Application{}, err
	}
	if a.Status == status {
		return a, nil
	}

	if err := u.applications.UpdateStatus(ctx, applicationID, status); err != nil {
		if errors.Is(err, job.ErrApplicationNotFound) {
			return job.Application{}, ErrNotFound
		}
		return job.Application{}, ErrInternal
	}

	updated, err := u.applications.GetByID(ctx, applicationID)
	if err != nil {
		return job.Application{}, ErrInternal
	}
	if u.logger != nil {
		u.logger.Printf("Application status changed | application_id=%s from=%s to=%s", applicationID, a.Status, status)
	}

	u.notifyStatusChange(updated)
	return updated, nil
}

func (u *Jobs) notifyStatusChange(a job.Application) {
	if u.mailer != nil && a.ApplicantEmail != "" {
		subject, body := statusChangeMail(a, u.appURL)
		to := a.ApplicantEmail
		u.runAsync("mail_application_status", func(ctx context.Context) error {
			return u.mailer.Send(ctx, to, subject, body)
		})
	}
	if u.push != nil {
		n := PushNotification{
			Title: "Application update",
			Body:  fmt.Sprintf("Your application for %s is now %s", a.Job.Title, a.Status),
			Data:  map[string]string{"type": "application_status", "application_id": a.ID.String(), "status": string(a.Status)},
		}
		applicantID := a.ApplicantID
		u.runAsync("push_application_status", func(ctx context.Context) error {
			return u.push.NotifyUser(ctx, applicantID, n)
		})
	}
}

func statusChangeMail(a job.Application, appURL string) (string, string) {
	subject := fmt.Sprintf("Your application for %s: %s", a.Job.Title, a.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p>", html.EscapeString(a.Applicant.FullName))
	fmt.Fprintf(&b, "<p>Your application for <strong>%s</strong> at %s is now <strong>%s</strong>.</p>",
		html.EscapeString(a.Job.Title), html.EscapeString(a.Job.Company), html.EscapeString(string(a.Status)))
	if appURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s/applications">View your applications</a></p>`, html.EscapeString(appURL))
	}
	return subject, b.String()
}
