package job

import (
	"strings"
	"time"

	"carenet/internal/domain"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

const (
	DefaultJobType         = "full-time"
	DefaultExperienceLevel = "mid"
)

var jobTypes = map[string]bool{
	"full-time":  true,
	"part-time":  true,
	"contract":   true,
	"locum":      true,
	"internship": true,
}

var experienceLevels = map[string]bool{
	"entry":  true,
	"mid":    true,
	"senior": true,
	"lead":   true,
}

func ValidJobType(t string) bool { return jobTypes[t] }

type Job struct {
	ID              uuid.UUID
	EmployerID      uuid.UUID
	Title           string
	Company         string
	Location        string
	JobType         string
	ExperienceLevel string
	SalaryRange     string
	Description     string
	Requirements    string
	Benefits        string
	IsActive        bool
	CreatedAt       time.Time
	Employer        profile.Summary
}

// Normalize trims fields, fills defaults and checks the required ones.
func (j *Job) Normalize() error {
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	j.Description = strings.TrimSpace(j.Description)
	j.Requirements = strings.TrimSpace(j.Requirements)
	j.Benefits = strings.TrimSpace(j.Benefits)
	j.SalaryRange = strings.TrimSpace(j.SalaryRange)

	j.JobType = strings.ToLower(strings.TrimSpace(j.JobType))
	if j.JobType == "" {
		j.JobType = DefaultJobType
	}
	j.ExperienceLevel = strings.ToLower(strings.TrimSpace(j.ExperienceLevel))
	if j.ExperienceLevel == "" {
		j.ExperienceLevel = DefaultExperienceLevel
	}

	if err := domain.Required(
		"title", j.Title,
		"company", j.Company,
		"location", j.Location,
		"description", j.Description,
	); err != nil {
		return err
	}
	if !jobTypes[j.JobType] {
		return domain.NewValidationError("job_type", "unknown job type")
	}
	if !experienceLevels[j.ExperienceLevel] {
		return domain.NewValidationError("experience_level", "unknown experience level")
	}
	return nil
}
