package repository

import (
	"context"

	"carenet/internal/database"
	"carenet/internal/domain/job"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobSelect = `SELECT j.id, j.employer_id, j.title, j.company, j.location, j.job_type, j.experience_level,
	j.salary_range, j.description, j.requirements, j.benefits, j.is_active, j.created_at,
	e.id, e.full_name, e.headline, e.user_type, e.profile_photo
	FROM jobs j
	JOIN profiles e ON e.id = j.employer_id`

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, title, company, location, job_type, experience_level,
			salary_range, description, requirements, benefits)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		j.EmployerID, j.Title, j.Company, j.Location, j.JobType, j.ExperienceLevel,
		j.SalaryRange, j.Description, j.Requirements, j.Benefits,
	)
	if err := row.Scan(&id); err != nil {
		if isForeignKeyViolation(err) {
			return job.Job{}, profile.ErrNotFound
		}
		return job.Job{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	return scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
}

func (r *PostgresJobRepository) ListActive(ctx context.Context, f job.ListFilter) ([]job.Job, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20, 100)

	rows, err := r.db.Query(ctx,
		jobSelect+` WHERE j.is_active AND ($1::text = '' OR j.job_type = $1)
		 ORDER BY j.created_at DESC
		 LIMIT $2 OFFSET $3`,
		f.JobType, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.ExperienceLevel,
		&j.SalaryRange, &j.Description, &j.Requirements, &j.Benefits, &j.IsActive, &j.CreatedAt,
		&j.Employer.ID, &j.Employer.FullName, &j.Employer.Headline, &j.Employer.UserType, &j.Employer.ProfilePhoto,
	)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}
