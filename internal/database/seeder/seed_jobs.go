package seeder

import (
	"context"

	"carenet/internal/database"
)

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

func (JobsSeeder) Requires() Columns {
	return Columns{"jobs": {"employer_id", "title", "company", "location", "job_type", "experience_level", "description"}}
}

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	items := []struct {
		Title           string
		Location        string
		JobType         string
		ExperienceLevel string
		Description     string
	}{
		{Title: "ICU Staff Nurse", Location: "Portland, OR", JobType: "full-time", ExperienceLevel: "mid", Description: "Rotating shifts in a 24 bed intensive care unit."},
		{Title: "Locum Cardiologist", Location: "Portland, OR", JobType: "locum", ExperienceLevel: "senior", Description: "Three month cover for outpatient cardiology clinics."},
		{Title: "Pharmacy Intern", Location: "Remote", JobType: "internship", ExperienceLevel: "entry", Description: "Medication review and patient counselling support."},
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (employer_id, title, company, location, job_type, experience_level, description)
				 SELECT $1, $2, p.full_name, $3, $4, $5, $6 FROM profiles p
				 WHERE p.id = $1
				   AND NOT EXISTS (SELECT 1 FROM jobs WHERE employer_id = $1 AND title = $2)`,
				DemoEmployerID, it.Title, it.Location, it.JobType, it.ExperienceLevel, it.Description,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
