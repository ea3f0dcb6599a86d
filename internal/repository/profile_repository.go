package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"carenet/internal/database"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, email, full_name, user_type, headline, bio, location, phone, linkedin_url,
	profile_photo, cover_photo, skills, experience, education, license_number, specialization,
	highest_qualification, years_of_experience, account_status, deactivated_at, created_at, updated_at`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	return insertProfile(ctx, r.db, p)
}

func insertProfile(ctx context.Context, q database.Querier, p profile.Profile) error {
	exp, edu, err := marshalLists(p)
	if err != nil {
		return err
	}
	if p.UserType == "" {
		p.UserType = profile.DefaultUserType
	}
	if p.AccountStatus == "" {
		p.AccountStatus = profile.StatusActive
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err = q.Exec(ctx,
		`INSERT INTO profiles (id, email, full_name, user_type, headline, bio, location, phone, linkedin_url,
			skills, experience, education, license_number, specialization, highest_qualification,
			years_of_experience, account_status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Email, p.FullName, p.UserType, p.Headline, p.Bio, p.Location, p.Phone, p.LinkedInURL,
		skills, exp, edu, p.LicenseNumber, p.Specialization, p.HighestQualification,
		p.YearsOfExperience, string(p.AccountStatus),
	)
	return err
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p profile.Profile) error {
	exp, edu, err := marshalLists(p)
	if err != nil {
		return err
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET
			full_name = $2, user_type = $3, headline = $4, bio = $5, location = $6, phone = $7,
			linkedin_url = $8, skills = $9, experience = $10, education = $11, license_number = $12,
			specialization = $13, highest_qualification = $14, years_of_experience = $15,
			updated_at = now()
		 WHERE id = $1`,
		p.ID, p.FullName, p.UserType, p.Headline, p.Bio, p.Location, p.Phone,
		p.LinkedInURL, skills, exp, edu, p.LicenseNumber,
		p.Specialization, p.HighestQualification, p.YearsOfExperience,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) SetPhoto(ctx context.Context, id uuid.UUID, kind profile.PhotoKind, url string) error {
	var column string
	switch kind {
	case profile.PhotoProfile:
		column = "profile_photo"
	case profile.PhotoCover:
		column = "cover_photo"
	default:
		return fmt.Errorf("unknown photo kind %q", kind)
	}

	n, err := r.db.Exec(ctx, `UPDATE profiles SET `+column+` = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) SetAccountStatus(ctx context.Context, id uuid.UUID, status profile.AccountStatus) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET
			account_status = $2,
			deactivated_at = CASE WHEN $2 = 'deactivated' THEN now() ELSE NULL END,
			updated_at = now()
		 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *PostgresProfileRepository) RecordView(ctx context.Context, profileID, viewerID uuid.UUID) error {
	if profileID == viewerID {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO profile_views (profile_id, viewer_id) VALUES ($1, $2)`,
		profileID, viewerID,
	)
	if isForeignKeyViolation(err) {
		return profile.ErrNotFound
	}
	return err
}

func (r *PostgresProfileRepository) Stats(ctx context.Context, id uuid.UUID) (profile.Stats, error) {
	var s profile.Stats
	row := r.db.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM profile_views WHERE profile_id = $1),
			(SELECT count(*) FROM care_team
			  WHERE status = 'accepted' AND (requester_id = $1 OR receiver_id = $1))`,
		id,
	)
	if err := row.Scan(&s.ProfileViews, &s.Connections); err != nil {
		return profile.Stats{}, err
	}
	return s, nil
}

func marshalLists(p profile.Profile) ([]byte, []byte, error) {
	exp := p.Experience
	if exp == nil {
		exp = []profile.Experience{}
	}
	edu := p.Education
	if edu == nil {
		edu = []profile.Education{}
	}
	expJSON, err := json.Marshal(exp)
	if err != nil {
		return nil, nil, err
	}
	eduJSON, err := json.Marshal(edu)
	if err != nil {
		return nil, nil, err
	}
	return expJSON, eduJSON, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p       profile.Profile
		expJSON []byte
		eduJSON []byte
		status  string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.UserType, &p.Headline, &p.Bio, &p.Location, &p.Phone, &p.LinkedInURL,
		&p.ProfilePhoto, &p.CoverPhoto, &p.Skills, &expJSON, &eduJSON, &p.LicenseNumber, &p.Specialization,
		&p.HighestQualification, &p.YearsOfExperience, &status, &p.DeactivatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	p.AccountStatus = profile.AccountStatus(status)
	if len(expJSON) > 0 {
		if err := json.Unmarshal(expJSON, &p.Experience); err != nil {
			return profile.Profile{}, fmt.Errorf("decode experience: %w", err)
		}
	}
	if len(eduJSON) > 0 {
		if err := json.Unmarshal(eduJSON, &p.Education); err != nil {
			return profile.Profile{}, fmt.Errorf("decode education: %w", err)
		}
	}
	return p, nil
}
