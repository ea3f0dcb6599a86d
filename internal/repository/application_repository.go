package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/job"

	"github.com/google/uuid"
)

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `SELECT a.id, a.job_id, a.applicant_id, a.cover_letter, a.license_number, a.specialization,
	a.years_of_experience, a.highest_qualification, a.phone_number, a.current_workplace, a.expected_salary,
	a.resume_url, a.status, a.created_at, a.updated_at,
	j.id, j.employer_id, j.title, j.company, j.location, j.job_type, j.is_active, j.created_at,
	p.id, p.full_name, p.headline, p.user_type, p.profile_photo, u.email
	FROM job_applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN profiles p ON p.id = a.applicant_id
	JOIN users u ON u.id = a.applicant_id`

func (r *PostgresApplicationRepository) Create(ctx context.Context, a job.Application) (job.Application, error) {
	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, applicant_id, cover_letter, license_number, specialization,
			years_of_experience, highest_qualification, phone_number, current_workplace, expected_salary,
			resume_url, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id`,
		a.JobID, a.ApplicantID, a.CoverLetter, a.LicenseNumber, a.Specialization,
		a.YearsOfExperience, a.HighestQualification, a.PhoneNumber, a.CurrentWorkplace, a.ExpectedSalary,
		a.ResumeKey, string(a.Status),
	)
	if err := row.Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return job.Application{}, job.ErrAlreadyApplied
		}
		if isForeignKeyViolation(err) {
			return job.Application{}, job.ErrNotFound
		}
		return job.Application{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresApplicationRepository) HasApplied(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]job.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`, applicantID)
}

func (r *PostgresApplicationRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE j.employer_id = $1 ORDER BY a.created_at DESC`, employerID)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status job.ApplicationStatus) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, id uuid.UUID) ([]job.Application, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (job.Application, error) {
	var (
		a      job.Application
		status string
	)
	err := row.Scan(
		&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &a.LicenseNumber, &a.Specialization,
		&a.YearsOfExperience, &a.HighestQualification, &a.PhoneNumber, &a.CurrentWorkplace, &a.ExpectedSalary,
		&a.ResumeKey, &status, &a.CreatedAt, &a.UpdatedAt,
		&a.Job.ID, &a.Job.EmployerID, &a.Job.Title, &a.Job.Company, &a.Job.Location, &a.Job.JobType, &a.Job.IsActive, &a.Job.CreatedAt,
		&a.Applicant.ID, &a.Applicant.FullName, &a.Applicant.Headline, &a.Applicant.UserType, &a.Applicant.ProfilePhoto, &a.ApplicantEmail,
	)
	if err != nil {
		if isNoRows(err) {
			return job.Application{}, job.ErrApplicationNotFound
		}
		return job.Application{}, err
	}
	a.Status = job.ApplicationStatus(status)
	return a, nil
}
